package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"infracheck/internal/graph"
	"infracheck/internal/infracache"
	"infracheck/pkg/domain"
)

// Report summarizes one validation pass.
type Report struct {
	RunID     string                                         `json:"run_id"`
	InfraID   int64                                          `json:"infra_id"`
	StartedAt time.Time                                      `json:"started_at"`
	Duration  time.Duration                                  `json:"duration_ns"`
	Errors    []domain.InfraError                            `json:"errors"`
	Counts    map[domain.ObjectType]map[domain.ErrorType]int `json:"counts"`
	Topology  graph.Summary                                  `json:"topology"`
}

// Total returns the number of errors found by the pass.
func (r Report) Total() int { return len(r.Errors) }

// ReportExporter stores a finished report somewhere durable and returns the
// location it was written to.
type ReportExporter interface {
	Export(ctx context.Context, report Report) (string, error)
}

// Service runs validation passes against a cache and persists their errors.
type Service struct {
	store    domain.ErrorStore
	logger   Logger
	metrics  MetricsRecorder
	exporter ReportExporter
	workers  int
	nowFn    func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger sets the logger; nil keeps the no-op logger.
func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithExporter stores every successful report with e.
func WithExporter(e ReportExporter) Option {
	return func(s *Service) { s.exporter = e }
}

// WithWorkers evaluates objects of a kind with up to n goroutines.
func WithWorkers(n int) Option {
	return func(s *Service) { s.workers = n }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.nowFn = now
		}
	}
}

// NewService constructs a service persisting to store.
func NewService(store domain.ErrorStore, opts ...Option) *Service {
	s := &Service{
		store:   store,
		logger:  noopLogger{},
		metrics: noopMetrics{},
		workers: 1,
		nowFn:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate computes the errors of every kind without persisting them. The
// graph is built once and shared by every checker call.
func (s *Service) Generate(cache *infracache.InfraCache) []domain.InfraError {
	return s.generate(cache, graph.Load(cache))
}

func (s *Service) generate(cache *infracache.InfraCache, g *graph.Graph) []domain.InfraError {
	var out []domain.InfraError
	for _, gen := range Generators() {
		errs := gen.Generate(cache, g, s.workers)
		s.logger.Debug("generated errors", "obj_type", gen.Kind(), "count", len(errs))
		out = append(out, errs...)
	}
	return out
}

// Validate runs one pass for infraID: build the track graph once, generate,
// then replace the stored errors of the infra in one bulk operation. A
// storage failure fails the whole pass; the caller may retry it. Run ids are
// UUIDv7, so they sort in start order.
func (s *Service) Validate(ctx context.Context, infraID int64, cache *infracache.InfraCache) (Report, error) {
	started := s.nowFn()
	runID, err := uuid.NewV7()
	if err != nil {
		return Report{}, fmt.Errorf("new run id: %w", err)
	}
	report := Report{RunID: runID.String(), InfraID: infraID, StartedAt: started}
	s.logger.Debug("validation started", "run_id", report.RunID, "infra_id", infraID)

	g := graph.Load(cache)
	report.Topology = g.Summary()
	s.logger.Debug("track network loaded",
		"tracks", report.Topology.Tracks,
		"links", report.Topology.Links,
		"components", report.Topology.Components,
	)
	report.Errors = s.generate(cache, g)
	report.Counts = countErrors(report.Errors)

	if err := ReplaceErrors(ctx, s.store, infraID, report.Errors); err != nil {
		report.Duration = s.nowFn().Sub(started)
		s.metrics.ObservePass(report.Duration, err)
		s.logger.Error("validation failed", "run_id", report.RunID, "infra_id", infraID, "error", err)
		return report, err
	}
	report.Duration = s.nowFn().Sub(started)
	s.metrics.ObservePass(report.Duration, nil)
	for objType, byType := range report.Counts {
		for errType, n := range byType {
			s.metrics.ObserveErrors(objType, errType, n)
		}
	}
	s.logger.Info("validation completed",
		"run_id", report.RunID,
		"infra_id", infraID,
		"errors", report.Total(),
		"components", report.Topology.Components,
		"duration", report.Duration,
	)

	if s.exporter != nil {
		location, err := s.exporter.Export(ctx, report)
		if err != nil {
			s.logger.Warn("report export failed", "run_id", report.RunID, "error", err)
			return report, fmt.Errorf("export report: %w", err)
		}
		s.logger.Debug("report exported", "run_id", report.RunID, "location", location)
	}
	return report, nil
}

// StoredErrors reads back the persisted errors of infraID.
func (s *Service) StoredErrors(ctx context.Context, infraID int64) ([]domain.InfraError, error) {
	payloads, err := s.store.ListErrors(ctx, infraID)
	if err != nil {
		return nil, fmt.Errorf("list errors for infra %d: %w", infraID, err)
	}
	return DecodeErrors(payloads)
}

func countErrors(errs []domain.InfraError) map[domain.ObjectType]map[domain.ErrorType]int {
	counts := make(map[domain.ObjectType]map[domain.ErrorType]int)
	for _, e := range errs {
		byType, ok := counts[e.ObjType]
		if !ok {
			byType = make(map[domain.ErrorType]int)
			counts[e.ObjType] = byType
		}
		byType[e.Type()]++
	}
	return counts
}
