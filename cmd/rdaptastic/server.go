package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/datum-labs/rdaptastic"
)

const (
	flagASNLookups    = "asn-lookups"
	anonymousIdentity = "anonymous"
	maxBodyBytes      = 64 << 10
)

// FlagSource decides per caller whether an optional feature is on.
type FlagSource interface {
	Enabled(ctx context.Context, flag, identity string) bool
}

// staticFlags enables the same features for every caller.
type staticFlags map[string]bool

func (s staticFlags) Enabled(_ context.Context, flag, _ string) bool { return s[flag] }

type domainLooker interface {
	Lookup(ctx context.Context, domain string, enrichASN bool) (*rdaptastic.DomainRecord, error)
}

type server struct {
	client  domainLooker
	flags   FlagSource
	log     logrus.FieldLogger
	metrics *metrics
	gather  prometheus.Gatherer
}

func newServer(client domainLooker, flags FlagSource, log logrus.FieldLogger) *server {
	reg := prometheus.NewRegistry()
	return &server{
		client:  client,
		flags:   flags,
		log:     log,
		metrics: newMetrics(reg),
		gather:  reg,
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	v1 := http.NewServeMux()
	v1.HandleFunc("/v1/rdap", s.handleRDAP)
	mux.Handle("/v1/", withCORS(v1))
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gather, promhttp.HandlerOpts{}))
	return s.logRequests(mux)
}

func (s *server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "rdaptastic API")
}

type rdapRequest struct {
	Domain string `json:"domain"`
}

func (s *server) handleRDAP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST, OPTIONS")
		writeText(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req rdapRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.metrics.observe(outcomeInvalid, 0, nil)
		writeText(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Domain) == "" {
		s.metrics.observe(outcomeInvalid, 0, nil)
		writeText(w, http.StatusBadRequest, "No domain provided")
		return
	}
	domain, err := rdaptastic.NormalizeDomain(req.Domain)
	if err != nil {
		s.metrics.observe(outcomeInvalid, 0, nil)
		writeText(w, http.StatusBadRequest, "Invalid domain")
		return
	}

	identity := r.Header.Get("CF-Connecting-IP")
	if identity == "" {
		identity = anonymousIdentity
	}
	enrich := s.flags.Enabled(r.Context(), flagASNLookups, identity)

	start := time.Now()
	rec, err := s.client.Lookup(r.Context(), domain, enrich)
	took := time.Since(start)
	log := s.log.WithFields(logrus.Fields{"domain": domain, "asn": enrich, "took": took})

	var nf *rdaptastic.NotFoundError
	switch {
	case err == nil:
		s.metrics.observe(outcomeOK, took, rec)
		writeJSON(w, http.StatusOK, rec)
	case errors.As(err, &nf):
		s.metrics.observe(outcomeNotFound, took, nil)
		log.WithError(err).Info("lookup not found")
		if nf.Domain == "" {
			writeText(w, http.StatusNotFound, "No RDAP server found for TLD")
			return
		}
		writeText(w, http.StatusNotFound, err.Error())
	default:
		s.metrics.observe(outcomeUpstream, took, nil)
		log.WithError(err).Warn("lookup failed")
		writeText(w, http.StatusInternalServerError, err.Error())
	}
}

// withCORS adds the API's CORS headers to every response under /v1/ and answers
// preflight requests itself.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Expose-Headers", "Content-Length")
		if r.Method == http.MethodOptions {
			h.Set("Access-Control-Allow-Headers", "*")
			h.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			h.Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": rec.status,
			"took":   time.Since(start),
		}).Debug("request")
	})
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func serve(ctx context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := newServer(a.client, staticFlags{flagASNLookups: a.cfg.ASNLookups}, a.log)
	srv := &http.Server{
		Addr:              a.cfg.Listen,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	a.log.WithField("listen", a.cfg.Listen).Info("serving")

	select {
	case err := <-errc:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}
	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
