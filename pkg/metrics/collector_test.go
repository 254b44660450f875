package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordError(t *testing.T) {
	before := testutil.ToFloat64(errorsTotal.WithLabelValues("E300", "high"))

	RecordError("E300", "high")

	after := testutil.ToFloat64(errorsTotal.WithLabelValues("E300", "high"))
	assert.Equal(t, before+1, after)
}

func TestRecordError_EmptyLabelsFallBackToUnknown(t *testing.T) {
	before := testutil.ToFloat64(errorsTotal.WithLabelValues("unknown", "unknown"))

	RecordError("", "")

	after := testutil.ToFloat64(errorsTotal.WithLabelValues("unknown", "unknown"))
	assert.Equal(t, before+1, after)
}

func TestRecordUpdate(t *testing.T) {
	before := testutil.ToFloat64(botUpdatesTotal.WithLabelValues("text", "ok"))

	RecordUpdate("text", "ok", 25*time.Millisecond)

	after := testutil.ToFloat64(botUpdatesTotal.WithLabelValues("text", "ok"))
	assert.Equal(t, before+1, after)
}

func TestRecordPayment(t *testing.T) {
	before := testutil.ToFloat64(paymentsTotal.WithLabelValues("initiated"))

	RecordPayment("initiated", 120*time.Millisecond)

	after := testutil.ToFloat64(paymentsTotal.WithLabelValues("initiated"))
	assert.Equal(t, before+1, after)
}
