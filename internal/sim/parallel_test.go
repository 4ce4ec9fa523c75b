package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/san-kum/stepsim/internal/motor"
)

func TestEnsembleRunsEveryConfig(t *testing.T) {
	fast := DefaultConfig()
	fast.Speed = 100
	slow := DefaultConfig()
	slow.Speed = 20
	slow.Direction = motor.Backward

	results, err := NewEnsemble([]Config{fast, slow}).Run(context.Background(), 300*time.Millisecond)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if results[0].Config.Speed != 100 || results[1].Config.Speed != 20 {
		t.Errorf("results out of order: %+v", results)
	}
	if results[0].Final.Steps == 0 {
		t.Error("fast motor never stepped")
	}
	if results[0].Final.Steps <= results[1].Final.Steps {
		t.Errorf("fast motor took %d steps, slow took %d", results[0].Final.Steps, results[1].Final.Steps)
	}
	if results[1].Final.Position >= 0 {
		t.Errorf("backward motor should end below zero, got %g", results[1].Final.Position)
	}
	if results[0].Expected != 30 {
		t.Errorf("expected 30 steps for the fast motor, got %g", results[0].Expected)
	}
	for i, r := range results {
		if !r.Final.Running {
			t.Errorf("result %d: motor not running", i)
		}
	}
}

func TestEnsembleRejectsBadConfigs(t *testing.T) {
	bad := DefaultConfig()
	bad.Speed = 0

	_, err := NewEnsemble([]Config{DefaultConfig(), bad}).Run(context.Background(), time.Millisecond)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, motor.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}
