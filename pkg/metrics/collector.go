package metrics

import (
	"context"
	"time"

	"github.com/dongaltd/dongpay-bot/internal/state"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	botUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total number of bot updates received labeled by kind and status",
		},
		[]string{"kind", "status"},
	)
	updateDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "update_duration_seconds",
			Help:    "Duration of bot update handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
	phaseTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversation_transitions_total",
			Help: "Total number of conversation phase transitions",
		},
		[]string{"from", "to"},
	)
	paymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Total number of payment initiation attempts by status",
		},
		[]string{"status"},
	)
	paymentDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "payment_duration_seconds",
			Help:    "Duration of payment gateway calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors split by type and severity",
		},
		[]string{"type", "severity"},
	)
	activeConversations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_conversations",
			Help: "Current number of in-flight conversations",
		},
	)
	conversationsByPhase = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "conversations_by_phase",
			Help: "Number of conversations per phase",
		},
		[]string{"phase"},
	)
)

var trackedPhases = []state.Phase{
	state.PhaseAwaitingAmount,
	state.PhaseAwaitingPhone,
	state.PhaseAwaitingConfirmation,
}

func init() {
	state.RegisterTransitionRecorder(RecordPhaseTransition)
}

// RecordUpdate increments update counters and records handling duration.
func RecordUpdate(kind, status string, duration time.Duration) {
	if kind == "" {
		kind = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botUpdatesTotal.WithLabelValues(kind, status).Inc()
	updateDurationSeconds.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordPhaseTransition tracks conversation phase changes.
func RecordPhaseTransition(from, to string) {
	if from == "" {
		from = "unknown"
	}
	if to == "" {
		to = "unknown"
	}

	phaseTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordPayment tracks one gateway initiation attempt.
func RecordPayment(status string, duration time.Duration) {
	if status == "" {
		status = "unknown"
	}

	paymentsTotal.WithLabelValues(status).Inc()
	paymentDurationSeconds.Observe(duration.Seconds())
}

// RecordError increments error counters with metadata.
func RecordError(errType, severity string) {
	if errType == "" {
		errType = "unknown"
	}
	if severity == "" {
		severity = "unknown"
	}

	errorsTotal.WithLabelValues(errType, severity).Inc()
}

// SetActiveConversations updates the gauge for in-flight conversations.
func SetActiveConversations(count int) {
	activeConversations.Set(float64(count))
}

// SetConversationsByPhase updates the gauge for the given phase.
func SetConversationsByPhase(phase string, count int) {
	if phase == "" {
		phase = "unknown"
	}

	conversationsByPhase.WithLabelValues(phase).Set(float64(count))
}

// PhaseCollector periodically gathers phase counts and emits gauge metrics.
type PhaseCollector struct {
	machine *state.Machine
}

// NewPhaseCollector builds a collector bound to the conversation machine.
func NewPhaseCollector(machine *state.Machine) *PhaseCollector {
	return &PhaseCollector{machine: machine}
}

// Run polls the machine every 10 seconds, updating gauges until ctx is cancelled.
func (c *PhaseCollector) Run(ctx context.Context) {
	if c == nil || c.machine == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	for {
		_ = c.collect(ctx)

		select {
		case <-ctx.Done():
			return
		case <-time.After(10 * time.Second):
		}
	}
}

func (c *PhaseCollector) collect(ctx context.Context) error {
	conversations, err := c.machine.All(ctx)
	if err != nil {
		return err
	}

	SetActiveConversations(len(conversations))

	phaseCounts := make(map[string]int, len(conversations))
	for _, conv := range conversations {
		label := "unknown"
		if conv != nil && conv.Phase != "" {
			label = string(conv.Phase)
		}
		phaseCounts[label]++
	}

	conversationsByPhase.Reset()

	for _, tracked := range trackedPhases {
		label := string(tracked)
		SetConversationsByPhase(label, phaseCounts[label])
		delete(phaseCounts, label)
	}

	for label, count := range phaseCounts {
		SetConversationsByPhase(label, count)
	}

	return nil
}
