package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for gamification events.
type Metrics struct {
	Registry *prometheus.Registry

	XPAwarded         *prometheus.CounterVec
	LessonsCompleted  prometheus.Counter
	StreakTransitions *prometheus.CounterVec
	LevelRepairs      prometheus.Counter
	StatsCacheLookups *prometheus.CounterVec
}

// New registers all collectors on a fresh registry, so tests can build as many
// instances as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		XPAwarded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "engilearn_xp_awarded_total",
			Help: "Total XP awarded to users, by reason",
		}, []string{"reason"}),
		LessonsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "engilearn_lessons_completed_total",
			Help: "Total number of lesson completions",
		}),
		StreakTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "engilearn_streak_transitions_total",
			Help: "Streak updates by outcome (same_session, continued, broken)",
		}, []string{"outcome"}),
		LevelRepairs: factory.NewCounter(prometheus.CounterOpts{
			Name: "engilearn_level_repairs_total",
			Help: "Users whose stored level was repaired by the reconciliation job",
		}),
		StatsCacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "engilearn_stats_cache_lookups_total",
			Help: "User stats cache lookups by result (hit, miss, error)",
		}, []string{"result"}),
	}
}

func (m *Metrics) AddXP(reason string, amount int) {
	if m == nil {
		return
	}
	m.XPAwarded.WithLabelValues(reason).Add(float64(amount))
}

func (m *Metrics) IncrementLessonsCompleted() {
	if m == nil {
		return
	}
	m.LessonsCompleted.Inc()
}

func (m *Metrics) IncrementStreak(outcome string) {
	if m == nil {
		return
	}
	m.StreakTransitions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) AddLevelRepairs(n int) {
	if m == nil {
		return
	}
	m.LevelRepairs.Add(float64(n))
}

func (m *Metrics) IncrementCacheLookup(result string) {
	if m == nil {
		return
	}
	m.StatsCacheLookups.WithLabelValues(result).Inc()
}
