package metrics

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taoyao-code/loragw/internal/protocol/libelium"
)

func TestRejectReason(t *testing.T) {
	assert.Equal(t, "bad_crc", RejectReason(libelium.ErrBadCRC))
	assert.Equal(t, "unsupported", RejectReason(libelium.ErrUnsupportedFrame))
	assert.Equal(t, "too_long", RejectReason(fmt.Errorf("wrap: %w", libelium.ErrPayloadTooLong)))
	assert.Equal(t, "reset", RejectReason(libelium.ErrReset))
	assert.Equal(t, "unexpected_byte", RejectReason(libelium.ErrUnexpectedByte))
	assert.Equal(t, "other", RejectReason(errors.New("x")))
}

func TestAppMetrics_ExposedByHandler(t *testing.T) {
	reg := NewRegistry()
	m := NewAppMetrics(reg)
	m.FramesAssembled.WithLabelValues("gateway").Inc()
	m.FrameRejects.WithLabelValues("bad_crc").Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.FramesAssembled.WithLabelValues("gateway")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FrameRejects.WithLabelValues("bad_crc")))

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `frames_assembled_total{kind="gateway"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
