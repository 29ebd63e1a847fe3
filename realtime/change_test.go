package realtime

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestParseChange(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    Change
		wantErr bool
	}{
		{"insert", `{"table":"inventory_items","type":"INSERT"}`, Change{Table: "inventory_items", Event: Insert}, false},
		{"delete", `{"table":"requests","type":"DELETE"}`, Change{Table: "requests", Event: Delete}, false},
		{"unknown event", `{"table":"requests","type":"TRUNCATE"}`, Change{}, true},
		{"no table", `{"type":"UPDATE"}`, Change{}, true},
		{"not json", `inventory_items`, Change{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseChange(tc.payload)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

type recordingPublisher struct {
	got []Change
}

func (p *recordingPublisher) Publish(_ context.Context, c Change) error {
	p.got = append(p.got, c)
	return nil
}

func TestListenerRelay(t *testing.T) {
	pub := &recordingPublisher{}
	l := NewListener("", pub, zap.NewNop())

	l.relay(context.Background(), `{"table":"activity_logs","type":"INSERT"}`)
	l.relay(context.Background(), `garbage`)

	if len(pub.got) != 1 {
		t.Fatalf("published %d changes, want 1", len(pub.got))
	}
	if pub.got[0] != (Change{Table: "activity_logs", Event: Insert}) {
		t.Fatalf("unexpected change %+v", pub.got[0])
	}
}
