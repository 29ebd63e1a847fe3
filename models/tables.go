package models

// ChangeTables 这些表的增删改会触发 NOTIFY，仪表盘也只订阅这些表
var ChangeTables = []string{InventoryTable, RequestTable, ActivityLogTable}
