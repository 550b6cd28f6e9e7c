// Package metrics exposes Prometheus counters for the decision and fallback
// paths. A nil *Recorder is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Recorder struct {
	registry  *prometheus.Registry
	decisions *prometheus.CounterVec
	tools     *prometheus.CounterVec
	agent     *prometheus.CounterVec
}

// New builds a Recorder on its own registry, including Go runtime collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "organmatch",
			Name:      "transport_decisions_total",
			Help:      "Transport decisions by source and recommendation.",
		}, []string{"source", "recommendation"}),
		tools: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "organmatch",
			Name:      "tool_invocations_total",
			Help:      "Tool lookups by tool and the method that served them.",
		}, []string{"tool", "method"}),
		agent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "organmatch",
			Name:      "agent_invocations_total",
			Help:      "Generative agent calls by method and outcome.",
		}, []string{"method", "outcome"}),
	}
	r.registry.MustRegister(
		r.decisions,
		r.tools,
		r.agent,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) Decision(source, recommendation string) {
	if r == nil {
		return
	}
	r.decisions.WithLabelValues(source, recommendation).Inc()
}

func (r *Recorder) Tool(tool, method string) {
	if r == nil {
		return
	}
	r.tools.WithLabelValues(tool, method).Inc()
}

func (r *Recorder) Agent(method string, ok bool) {
	if r == nil {
		return
	}
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	r.agent.WithLabelValues(method, outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
