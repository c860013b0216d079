// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

package supervisor

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/skillscout/internal/logging"
)

func TestDefaultTreeConfig(t *testing.T) {
	cfg := DefaultTreeConfig()
	if cfg.FailureThreshold != 5.0 {
		t.Errorf("FailureThreshold = %f, want 5.0", cfg.FailureThreshold)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %s, want 10s", cfg.ShutdownTimeout)
	}
}

func TestTreeAppliesZeroValueDefaults(t *testing.T) {
	logging.SetLogger(zerolog.Nop())
	tree := NewTree(logging.NewSlogLogger(), TreeConfig{})
	if tree.config.FailureThreshold != 5.0 {
		t.Errorf("FailureThreshold = %f, want 5.0", tree.config.FailureThreshold)
	}
	if tree.config.FailureBackoff != 15*time.Second {
		t.Errorf("FailureBackoff = %s, want 15s", tree.config.FailureBackoff)
	}
	if tree.Root() == nil {
		t.Error("Root() returned nil")
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestStoreServiceClosesOnShutdown(t *testing.T) {
	closed := false
	svc := NewStoreService(closerFunc(func() error {
		closed = true
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Serve() = %v, want context.Canceled", err)
	}
	if !closed {
		t.Error("store was not closed on shutdown")
	}
}

func TestStoreServiceCloseError(t *testing.T) {
	svc := NewStoreService(closerFunc(func() error {
		return io.ErrClosedPipe
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := svc.Serve(ctx); !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("Serve() = %v, want wrapped close error", err)
	}
}
