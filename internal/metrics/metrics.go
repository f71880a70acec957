// Package metrics counts what a processing run did in a dedicated Prometheus
// registry that can be written out for the node-exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/JLammering/Volleyball-Stats/internal/model"
)

const namespace = "vbstats"

// Recorder holds the run counters. A nil Recorder ignores all calls.
type Recorder struct {
	registry      *prometheus.Registry
	games         *prometheus.CounterVec
	failures      *prometheus.CounterVec
	sets          prometheus.Counter
	substitutions *prometheus.CounterVec
	gameDuration  prometheus.Histogram
}

// NewRecorder builds a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		games: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_processed_total",
			Help:      "Games aggregated successfully.",
		}, []string{"season", "team"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_failed_total",
			Help:      "Games skipped because their input was invalid.",
		}, []string{"season", "team", "kind"}),
		sets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sets_processed_total",
			Help:      "Sets aggregated.",
		}),
		substitutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "substitution_rows_total",
			Help:      "Substitution rows read, by kind.",
		}, []string{"kind"}),
		gameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "game_duration_seconds",
			Help:      "Time spent loading and aggregating one game.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
	}
	r.registry.MustRegister(r.games, r.failures, r.sets, r.substitutions, r.gameDuration)
	return r
}

// RecordGame counts a successfully aggregated game.
func (r *Recorder) RecordGame(raw *model.RawGame, d time.Duration) {
	if r == nil || raw == nil {
		return
	}
	r.games.WithLabelValues(raw.Season, raw.Team).Inc()
	r.sets.Add(float64(len(raw.Sets)))
	for _, sub := range raw.Substitutions {
		r.substitutions.WithLabelValues(sub.Kind.String()).Inc()
	}
	r.gameDuration.Observe(d.Seconds())
}

// RecordFailure counts a game that could not be processed.
func (r *Recorder) RecordFailure(season, team string, err error) {
	if r == nil {
		return
	}
	r.failures.WithLabelValues(season, team, ErrorKind(err)).Inc()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// WriteTextfile writes the registry in text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}

// ErrorKind classifies err into a low-cardinality label value.
func ErrorKind(err error) string {
	if _, ok := model.AsInvalidSetScore(err); ok {
		return "invalid_set_score"
	}
	if _, ok := model.AsUnknownPlayerNumber(err); ok {
		return "unknown_player_number"
	}
	if _, ok := model.AsNonMonotonicScore(err); ok {
		return "non_monotonic_score"
	}
	if _, ok := model.AsOverlappingInterval(err); ok {
		return "overlapping_interval"
	}
	if _, ok := model.AsMalformedNameFile(err); ok {
		return "malformed_name_file"
	}
	if _, ok := model.AsDivisionByZeroPoints(err); ok {
		return "division_by_zero_points"
	}
	return "other"
}
