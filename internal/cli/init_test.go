package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneytrack/internal/config"
	"moneytrack/internal/log"
)

type fakeServer struct {
	listenErr error
	closed    chan struct{}
	shutdowns atomic.Int32
}

func newFakeServer(listenErr error) *fakeServer {
	return &fakeServer{listenErr: listenErr, closed: make(chan struct{})}
}

func (f *fakeServer) ListenAndServe() error {
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.closed
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	if f.shutdowns.Add(1) == 1 {
		close(f.closed)
	}
	return nil
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := newFakeServer(nil)
	var taskStopped atomic.Bool

	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, log.Discard(), srv, time.Second, func(ctx context.Context) error {
			<-ctx.Done()
			taskStopped.Store(true)
			return nil
		})
	}()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	assert.Equal(t, int32(1), srv.shutdowns.Load())
	assert.True(t, taskStopped.Load())
}

func TestServeReportsListenFailure(t *testing.T) {
	srv := newFakeServer(errors.New("address in use"))
	err := Serve(context.Background(), nil, srv, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address in use")
	assert.Equal(t, int32(1), srv.shutdowns.Load())
}

func TestServeReportsTaskFailure(t *testing.T) {
	srv := newFakeServer(nil)
	boom := errors.New("sweep failed")
	err := Serve(context.Background(), log.Discard(), srv, time.Second, func(context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), srv.shutdowns.Load())
}

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1,192.168.0.0/16")

	cfg, err := LoadAndValidateConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "memory", cfg.DataBackend)
	assert.Equal(t, []string{"10.0.0.1", "192.168.0.0/16"}, cfg.TrustedProxies)
	assert.Equal(t, "₹", cfg.CurrencySymbol)
}

func TestLoadAndValidateConfigRejectsBadValues(t *testing.T) {
	t.Setenv("DATA_BACKEND", "sheets")
	_, err := LoadAndValidateConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid data backend 'sheets'")

	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	_, err = LoadAndValidateConfig()
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MONEYTRACK_TEST_VALUE=from-dotenv\n"), 0o600))
	t.Setenv("MONEYTRACK_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("MONEYTRACK_TEST_VALUE"))

	LoadEnvFile(path)
	assert.Equal(t, "from-dotenv", os.Getenv("MONEYTRACK_TEST_VALUE"))

	LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
}

func TestSetupLogger(t *testing.T) {
	logger, err := SetupLogger(&config.Config{LogLevel: "debug", LogFormat: log.FormatJSON})
	require.NoError(t, err)
	assert.Equal(t, log.ComponentApp, logger.Component())

	_, err = SetupLogger(&config.Config{LogLevel: "loud"})
	assert.Error(t, err)
}
