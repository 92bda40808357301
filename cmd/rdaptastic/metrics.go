package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/datum-labs/rdaptastic"
)

const (
	outcomeOK       = "ok"
	outcomeInvalid  = "invalid"
	outcomeNotFound = "not_found"
	outcomeUpstream = "upstream_error"
)

type metrics struct {
	lookups    *prometheus.CounterVec
	duration   prometheus.Histogram
	enrichment *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rdaptastic_lookups_total",
				Help: "Number of domain lookups by outcome",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rdaptastic_lookup_duration_seconds",
				Help:    "Duration of domain lookups, enrichment included",
				Buckets: prometheus.DefBuckets,
			},
		),
		enrichment: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rdaptastic_asn_enrichment_total",
				Help: "Number of nameserver ASN enrichments by outcome",
			},
			[]string{"outcome"},
		),
	}
	reg.MustRegister(m.lookups, m.duration, m.enrichment)
	return m
}

func (m *metrics) observe(outcome string, took time.Duration, rec *rdaptastic.DomainRecord) {
	m.lookups.WithLabelValues(outcome).Inc()
	if outcome == outcomeInvalid {
		return
	}
	m.duration.Observe(took.Seconds())
	if rec == nil {
		return
	}
	for _, a := range rec.ASN {
		if a.Failed() {
			m.enrichment.WithLabelValues("error").Inc()
		} else {
			m.enrichment.WithLabelValues(outcomeOK).Inc()
		}
	}
}
