package logger

import "testing"

func TestLoggerUsableBeforeInit(t *testing.T) {
	if Logger() == nil {
		t.Fatal("expected a non-nil logger before Init")
	}

	// Must not panic.
	Info("noop message")
}

func TestInitAcceptsLevels(t *testing.T) {
	if err := Init("debug"); err != nil {
		t.Fatalf("init with debug level: %v", err)
	}

	// Unknown levels fall back to info instead of failing.
	if err := Init("nonsense"); err != nil {
		t.Fatalf("init with unknown level: %v", err)
	}

	if WithModule("test") == nil {
		t.Fatal("expected module logger")
	}
}
