package bootstrap

import (
	"context"
	"errors"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	cfgpkg "github.com/taoyao-code/loragw/internal/config"
	"github.com/taoyao-code/loragw/internal/protocol/libelium"
	"github.com/taoyao-code/loragw/internal/thirdparty"
)

type pipePort struct {
	*io.PipeReader
}

func (pipePort) Write(b []byte) (int, error) { return len(b), nil }

func testConfig() *cfgpkg.Config {
	return &cfgpkg.Config{
		App:     cfgpkg.AppConfig{Name: "loragw", Instance: "test"},
		HTTP:    cfgpkg.HTTPConfig{Addr: "127.0.0.1:0", ReadTimeout: time.Second, WriteTimeout: time.Second},
		Serial:  cfgpkg.SerialConfig{Device: "/dev/null", Baud: 38400},
		Metrics: cfgpkg.MetricsConfig{Enable: true, Path: "/metrics"},
		Gateway: cfgpkg.GatewayConfig{
			MaxFrames:     10,
			MaxLogs:       10,
			DiagQueueSize: 16,
		},
	}
}

func TestRunWith_AssemblesAndShutsDown(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	pr, pw := io.Pipe()
	defer pw.Close()
	var opened atomic.Int32
	open := func() (io.ReadWriteCloser, error) {
		opened.Add(1)
		return pipePort{pr}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunWith(ctx, testConfig(), log, open) }()

	go func() { _, _ = pw.Write(libelium.BuildReadCommand()) }()
	require.Eventually(t, func() bool {
		return logs.FilterMessage("frame received").Len() > 0
	}, 3*time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, logs.FilterMessage(Banner).Len())
	entry := logs.FilterMessage("frame received").All()[0]
	assert.Equal(t, "READ", entry.ContextMap()["frame"])

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunWith did not return")
	}
	assert.Equal(t, int32(1), opened.Load())
}

func TestRunWith_BadPresets(t *testing.T) {
	cfg := testConfig()
	cfg.Gateway.PresetsPath = filepath.Join(t.TempDir(), "missing.yaml")

	err := RunWith(context.Background(), cfg, zap.NewNop(), func() (io.ReadWriteCloser, error) {
		return nil, errors.New("unused")
	})
	assert.Error(t, err)
}

func TestRunWith_ForwardsRemoteFrames(t *testing.T) {
	events := make(chan thirdparty.FrameEvent, 4)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ev thirdparty.FrameEvent
		if err := json.NewDecoder(r.Body).Decode(&ev); err == nil {
			events <- ev
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer hook.Close()

	cfg := testConfig()
	cfg.Webhook = cfgpkg.WebhookConfig{
		Enabled:   true,
		URL:       hook.URL + "/frames",
		Secret:    "s",
		Timeout:   time.Second,
		QueueSize: 4,
		Kinds:     []string{"remote_ascii"},
	}

	pr, pw := io.Pipe()
	defer pw.Close()
	open := func() (io.ReadWriteCloser, error) { return pipePort{pr}, nil }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunWith(ctx, cfg, zap.NewNop(), open) }()

	remote := []byte("<=>\x80\x01#35690284#NODE_01#12#TC:23.5#\r\n")
	go func() {
		_, _ = pw.Write(libelium.BuildReadCommand())
		_, _ = pw.Write(remote)
	}()

	select {
	case ev := <-events:
		assert.Equal(t, "remote_ascii", ev.Kind)
		assert.Equal(t, "test", ev.Gateway)
		assert.Equal(t, `<=>\0x80\0x01#35690284#NODE_01#12#TC:23.5#\0x0A`, ev.Text)
	case <-time.After(5 * time.Second):
		t.Fatal("no webhook event")
	}

	cancel()
	assert.NoError(t, <-done)
}
