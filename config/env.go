package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env (or the file named by ENV_FILE) into the process
// environment. Variables already set in the environment win.
func LoadEnv() {
	file := os.Getenv("ENV_FILE")
	if file == "" {
		file = ".env"
	}
	if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
		log.Printf("load %s: %v", file, err)
	}
}
