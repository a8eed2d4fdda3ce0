package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"
)

func TestServer_ShutdownRunsComponentsInReverse(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(http.NotFoundHandler(), "127.0.0.1:0", time.Second, time.Second, 5*time.Second, logger)

	var mu sync.Mutex
	var order []string
	record := func(name string, err error) ShutdownFunc {
		return func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return err
		}
	}

	closeErr := errors.New("close failed")
	srv.OnShutdown("store", record("store", closeErr))
	srv.OnShutdown("metrics", record("metrics", nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, closeErr) {
			t.Fatalf("Run() error = %v, want %v", err, closeErr)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != "metrics" || order[1] != "store" {
		t.Errorf("shutdown order = %v, want [metrics store]", order)
	}
}

func TestServer_Addr(t *testing.T) {
	srv := New(http.NotFoundHandler(), "0.0.0.0:8500", time.Second, time.Second, time.Second, slog.Default())
	if srv.Addr() != "0.0.0.0:8500" {
		t.Errorf("Addr() = %q", srv.Addr())
	}
}
