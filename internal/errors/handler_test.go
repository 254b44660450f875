package errors

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() *Handler {
	return NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
}

// errorsTotalValue reads the errors_total counter for the given type and
// severity from the default registry, zero when the series does not exist yet.
func errorsTotalValue(t *testing.T, errType, severity string) float64 {
	t.Helper()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != "errors_total" {
			continue
		}

		for _, metric := range family.GetMetric() {
			if matchesLabels(metric, errType, severity) {
				return metric.GetCounter().GetValue()
			}
		}
	}

	return 0
}

func matchesLabels(metric *dto.Metric, errType, severity string) bool {
	var typeOK, severityOK bool
	for _, label := range metric.GetLabel() {
		switch label.GetName() {
		case "type":
			typeOK = label.GetValue() == errType
		case "severity":
			severityOK = label.GetValue() == severity
		}
	}

	return typeOK && severityOK
}

func TestHandle_NilError(t *testing.T) {
	msg, retryable := newTestHandler().Handle(context.Background(), nil)

	assert.Empty(t, msg)
	assert.False(t, retryable)
}

func TestHandle_AppErrorReturnsUserMessage(t *testing.T) {
	h := newTestHandler()

	msg, retryable := h.Handle(context.Background(), NewGatewayTransportError(stderrors.New("dial tcp: timeout")))

	assert.Equal(t, "The payment service is temporarily unavailable.", msg)
	assert.True(t, retryable)
}

func TestHandle_AppErrorCountsTowardErrorMetrics(t *testing.T) {
	h := newTestHandler()
	before := errorsTotalValue(t, CodeDatabase, string(SeverityHigh))

	h.Handle(context.Background(), NewDatabaseError(stderrors.New("connection reset")))

	after := errorsTotalValue(t, CodeDatabase, string(SeverityHigh))
	assert.Equal(t, before+1, after)
}

func TestHandle_UnknownErrorCountsAsHighSeverity(t *testing.T) {
	h := newTestHandler()
	before := errorsTotalValue(t, "unknown", string(SeverityHigh))

	msg, retryable := h.Handle(context.Background(), stderrors.New("something odd"))

	assert.Equal(t, "Something went wrong. Please try again later.", msg)
	assert.False(t, retryable)

	after := errorsTotalValue(t, "unknown", string(SeverityHigh))
	assert.Equal(t, before+1, after)
}
