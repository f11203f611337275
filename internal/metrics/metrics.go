package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"quiz-helper/internal/domain"
)

// Collector records quiz activity and implements app.Observer.
type Collector struct {
	registry       *prometheus.Registry
	quizzesLoaded  prometheus.Counter
	questions      prometheus.Histogram
	sessions       prometheus.Counter
	submissions    prometheus.Counter
	outcomes       *prometheus.CounterVec
	correctOptions prometheus.Histogram
}

// NewCollector registers the quiz metrics on a private registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		quizzesLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quiz_loaded_total",
			Help: "Total number of quizzes loaded",
		}),
		questions: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quiz_questions",
			Help:    "Number of questions per loaded quiz",
			Buckets: []float64{1, 5, 10, 20, 50, 100},
		}),
		sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quiz_sessions_started_total",
			Help: "Total number of quiz sessions started",
		}),
		submissions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quiz_submissions_total",
			Help: "Total number of scored submissions",
		}),
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_question_outcomes_total",
				Help: "Scored questions by outcome",
			},
			[]string{"outcome"},
		),
		correctOptions: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quiz_correct_ratio",
			Help:    "Ratio of correctly handled options per submission",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
	}
	c.registry.MustRegister(c.quizzesLoaded, c.questions, c.sessions, c.submissions, c.outcomes, c.correctOptions)
	return c
}

func (c *Collector) QuizLoaded(quiz domain.Quiz) {
	c.quizzesLoaded.Inc()
	c.questions.Observe(float64(quiz.Len()))
}

func (c *Collector) SessionStarted() {
	c.sessions.Inc()
}

func (c *Collector) ResultsComputed(summary domain.ResultSummary) {
	c.submissions.Inc()
	c.outcomes.WithLabelValues(domain.TotallyCorrect.String()).Add(float64(summary.TotallyCorrect))
	c.outcomes.WithLabelValues(domain.PartiallyCorrect.String()).Add(float64(summary.PartiallyCorrect))
	c.outcomes.WithLabelValues(domain.TotallyWrong.String()).Add(float64(summary.TotallyWrong))
	c.correctOptions.Observe(summary.Ratio)
}

// Registry exposes the underlying registry, mostly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
