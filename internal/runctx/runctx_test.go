package runctx

import (
	"context"
	"log/slog"
	"testing"
)

func TestWithServicesRoundTrip(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	svcs := &Services{Logger: logger}

	ctx := WithServices(context.Background(), svcs)

	if got := ServicesFrom(ctx); got != svcs {
		t.Error("ServicesFrom did not return the attached services")
	}
	if got := LoggerFrom(ctx); got != logger {
		t.Error("LoggerFrom did not return the attached logger")
	}
}

func TestServicesFromMissing(t *testing.T) {
	ctx := context.Background()

	if got := ServicesFrom(ctx); got != nil {
		t.Errorf("ServicesFrom on bare context: got %v, want nil", got)
	}
	if got := LoggerFrom(ctx); got == nil {
		t.Error("LoggerFrom must fall back to the default logger")
	}
}
