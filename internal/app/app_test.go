package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/gopherdine/internal/config"
	testhelpers "github.com/polkiloo/gopherdine/internal/test"
	"github.com/polkiloo/gopherdine/internal/worker"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestSweeper() *worker.ReadinessSweeper {
	return worker.NewReadinessSweeper(&testhelpers.SweeperStub{}, 10*time.Millisecond, 1, testLogger())
}

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{RunAddress: ":9999"}
	router := gin.New()
	server := newHTTPServer(serverParams{Config: cfg, Router: router})
	if server.Addr != ":9999" {
		t.Fatalf("expected address :9999, got %q", server.Addr)
	}
	if server.Handler != router {
		t.Fatalf("expected handler to be router")
	}
	if server.ReadHeaderTimeout != readHeaderTimeout {
		t.Fatalf("unexpected read header timeout %s", server.ReadHeaderTimeout)
	}
}

func TestNewReadinessSweeperUsesConfig(t *testing.T) {
	sweeper := newReadinessSweeper(workerParams{
		Facade: &DineFacade{},
		Config: &config.Config{ReadySweepInterval: 15 * time.Second, ReadySweepBatch: 3},
		Logger: testLogger(),
	})
	if sweeper == nil {
		t.Fatal("expected sweeper instance")
	}
}

func TestRegisterLifecycleStartStop(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     testLogger(),
		Server:     server,
		Sweeper:    newTestSweeper(),
		Config:     &config.Config{ShutdownTimeout: 100 * time.Millisecond},
	})

	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected one hook registered, got %d", len(recorder.Hooks))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := recorder.Start(ctx); err != nil {
		t.Fatalf("on start failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = recorder.Stop(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected on stop to finish")
	}
}

func TestRegisterLifecycleShutdownOnServerError(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     testLogger(),
		Server:     &http.Server{Addr: "bad addr"},
		Sweeper:    newTestSweeper(),
		Config:     &config.Config{ShutdownTimeout: time.Second},
	})

	if err := recorder.Start(context.Background()); err != nil {
		t.Fatalf("on start returned error: %v", err)
	}

	select {
	case <-shutdowner.Called:
	case <-time.After(time.Second):
		t.Fatal("expected shutdown to be triggered on server error")
	}

	_ = recorder.Stop(context.Background())
}
