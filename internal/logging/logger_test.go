package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestHelpersBeforeInitializeAreNoops(t *testing.T) {
	SetLogger(nil)
	// Must not panic with the nop logger installed.
	Boot("booting %d", 1)
	Flight("tick")
	APIError("err %v", "x")
}

func TestCategoryNaming(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	Compliance("alert fired for %s", "FAA")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].LoggerName != "compliance" {
		t.Errorf("expected logger name compliance, got %s", entries[0].LoggerName)
	}
	if entries[0].Message != "alert fired for FAA" {
		t.Errorf("unexpected message: %s", entries[0].Message)
	}
}
