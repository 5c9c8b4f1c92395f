package app

import (
	"errors"
	"testing"
	"time"
)

func TestNewOperation(t *testing.T) {
	started := time.Date(2024, 1, 15, 11, 30, 5, 0, time.FixedZone("CET", 3600))
	op := NewOperation("Toggle", started)

	if op.Name != "Toggle" {
		t.Errorf("Name = %q, want Toggle", op.Name)
	}
	if op.ID != "20240115T103005Z" {
		t.Errorf("ID = %q, want UTC timestamp 20240115T103005Z", op.ID)
	}
	if op.Status != "success" {
		t.Errorf("Status = %q, want success", op.Status)
	}
	if !op.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", op.StartedAt, started)
	}
}

func TestOperation_Fail(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus string
	}{
		{name: "nil keeps success", err: nil, wantStatus: "success"},
		{name: "error marks failure", err: errors.New("boom"), wantStatus: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := NewOperation("Lens", time.Now())
			if got := op.Fail(tt.err); got != tt.err {
				t.Errorf("Fail() = %v, want the same error back", got)
			}
			if op.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", op.Status, tt.wantStatus)
			}
		})
	}

	t.Run("failure sticks", func(t *testing.T) {
		op := NewOperation("Shell", time.Now())
		op.Fail(errors.New("boom"))
		op.Fail(nil)
		if op.Status != "error" {
			t.Errorf("Status = %q, want error", op.Status)
		}
	})
}
