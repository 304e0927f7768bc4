// Package metrics exposes the tournament engine's prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is what the services report to.
type Recorder interface {
	RoundRecorded(mode string, matchCompleted bool)
	RecordDuration(d time.Duration, outcome string)
	PhaseGenerated(phase string, matches int)
	SubmissionRejected(reason string)
	LeaderboardRecomputed(mode string)
}

type PrometheusRecorder struct {
	rounds        *prometheus.CounterVec
	recordLatency *prometheus.HistogramVec
	phases        *prometheus.CounterVec
	matches       *prometheus.CounterVec
	rejections    *prometheus.CounterVec
	leaderboards  *prometheus.CounterVec
}

// NewPrometheusRecorder registers its collectors on reg.
func NewPrometheusRecorder(reg prometheus.Registerer, namespace string) *PrometheusRecorder {
	r := &PrometheusRecorder{
		rounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_recorded_total",
			Help:      "Round results accepted by the recorder.",
		}, []string{"game_mode", "match_completed"}),
		recordLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "record_round_duration_seconds",
			Help:      "Time spent recording one round result, including side effects.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		phases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phases_generated_total",
			Help:      "Generated phases and elimination rounds.",
		}, []string{"phase"}),
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_generated_total",
			Help:      "Matches created by the generator.",
		}, []string{"phase"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_rejected_total",
			Help:      "Round submissions rejected before any write.",
		}, []string{"reason"}),
		leaderboards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leaderboard_recomputes_total",
			Help:      "Full kill leaderboard recomputations.",
		}, []string{"game_mode"}),
	}
	reg.MustRegister(r.rounds, r.recordLatency, r.phases, r.matches, r.rejections, r.leaderboards)
	return r
}

func (r *PrometheusRecorder) RoundRecorded(mode string, matchCompleted bool) {
	completed := "false"
	if matchCompleted {
		completed = "true"
	}
	r.rounds.WithLabelValues(mode, completed).Inc()
}

func (r *PrometheusRecorder) RecordDuration(d time.Duration, outcome string) {
	r.recordLatency.WithLabelValues(outcome).Observe(d.Seconds())
}

func (r *PrometheusRecorder) PhaseGenerated(phase string, matches int) {
	r.phases.WithLabelValues(phase).Inc()
	r.matches.WithLabelValues(phase).Add(float64(matches))
}

func (r *PrometheusRecorder) SubmissionRejected(reason string) {
	r.rejections.WithLabelValues(reason).Inc()
}

func (r *PrometheusRecorder) LeaderboardRecomputed(mode string) {
	r.leaderboards.WithLabelValues(mode).Inc()
}

// NoOp discards everything; used by tests and when metrics are off.
type NoOp struct{}

func (NoOp) RoundRecorded(string, bool)           {}
func (NoOp) RecordDuration(time.Duration, string) {}
func (NoOp) PhaseGenerated(string, int)           {}
func (NoOp) SubmissionRejected(string)            {}
func (NoOp) LeaderboardRecomputed(string)         {}
