// Package metrics holds the Prometheus collectors for the bot.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "plat2plat"

// Message outcomes
const (
	OutcomeIgnored  = "ignored"   // own or bot message
	OutcomeNoLink   = "no_link"   // no supported link in content
	OutcomeResolved = "resolved"  // track reply sent
	OutcomeFailed   = "failed"    // error reply sent
	OutcomeSendFail = "send_fail" // reply could not be delivered
)

// Metrics groups the collectors, registered on their own registry
type Metrics struct {
	Registry *prometheus.Registry

	MessagesTotal    *prometheus.CounterVec
	LinksTotal       *prometheus.CounterVec
	ResolutionsTotal *prometheus.CounterVec
	ResolveDuration  prometheus.Histogram
	IconLookupsTotal *prometheus.CounterVec
}

// New creates and registers all collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		MessagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "messages_total",
				Help:      "Total number of messages handled, by outcome",
			},
			[]string{"outcome"},
		),
		LinksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "links_detected_total",
				Help:      "Total number of music links detected, by source platform",
			},
			[]string{"platform"},
		),
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolutions_total",
				Help:      "Total number of song.link lookups, by result",
			},
			[]string{"result"},
		),
		ResolveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "resolve_duration_seconds",
				Help:      "Time spent waiting for song.link",
				Buckets:   prometheus.DefBuckets,
			},
		),
		IconLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "icon_lookups_total",
				Help:      "Startup icon lookups, by platform and status",
			},
			[]string{"platform", "status"},
		),
	}

	m.Registry.MustRegister(
		m.MessagesTotal,
		m.LinksTotal,
		m.ResolutionsTotal,
		m.ResolveDuration,
		m.IconLookupsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// RecordMessage counts a handled message. Safe on a nil receiver.
func (m *Metrics) RecordMessage(outcome string) {
	if m == nil {
		return
	}
	m.MessagesTotal.WithLabelValues(outcome).Inc()
}

// RecordLink counts a detected link
func (m *Metrics) RecordLink(platform string) {
	if m == nil {
		return
	}
	m.LinksTotal.WithLabelValues(platform).Inc()
}

// RecordResolution counts a song.link lookup and observes its duration
func (m *Metrics) RecordResolution(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ResolutionsTotal.WithLabelValues(result).Inc()
	m.ResolveDuration.Observe(elapsed.Seconds())
}

// RecordIconLookup counts a startup icon lookup
func (m *Metrics) RecordIconLookup(platform, status string) {
	if m == nil {
		return
	}
	m.IconLookupsTotal.WithLabelValues(platform, status).Inc()
}
