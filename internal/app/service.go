// Package service provides the wave orchestrator that implements the
// dependencies required by the HTTP API. It guarantees each (client, wave)
// pair is computed at most once at a time and served from disk afterwards.
package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/pendulolabs/pendulo/internal/adapters/artifacts"
	"github.com/pendulolabs/pendulo/internal/domain/assemble"
	"github.com/pendulolabs/pendulo/internal/domain/ingest"
	"github.com/pendulolabs/pendulo/internal/domain/model"
	"github.com/pendulolabs/pendulo/internal/domain/normalize"
	"github.com/pendulolabs/pendulo/internal/domain/scoring"
	"github.com/pendulolabs/pendulo/internal/kernel"
	"github.com/pendulolabs/pendulo/pkg/logger"
	"github.com/pendulolabs/pendulo/pkg/metrics"
)

// WaveState tracks where a (client, wave) pair sits in its lifecycle.
type WaveState string

// Wave lifecycle states.
const (
	StateNotComputed WaveState = "not_computed"
	StateComputing   WaveState = "computing"
	StateComputed    WaveState = "computed"
)

// Stats is a point-in-time snapshot of orchestrator activity.
type Stats struct {
	WavesComputed int64                `json:"wavesComputed"`
	WavesFailed   int64                `json:"wavesFailed"`
	CacheHits     int64                `json:"cacheHits"`
	BuildsJoined  int64                `json:"buildsJoined"`
	States        map[string]WaveState `json:"states"`
}

// Service orchestrates wave computation and artifact serving.
type Service struct {
	mu     sync.RWMutex
	states map[string]WaveState

	store  *artifacts.Store
	kernel *kernel.Kernel
	pool   *kernel.Pool
	group  singleflight.Group

	// Configuration
	dataRoot      string
	workerCount   int
	queueSize     int
	normalizer    *normalize.Normalizer
	scorer        *scoring.Scorer
	clientPlayers map[string]string

	// Stats counters, guarded by mu.
	wavesComputed int64
	wavesFailed   int64
	cacheHits     int64
	buildsJoined  int64

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataRoot sets the directory holding the raw and processed trees.
func WithDataRoot(root string) Option {
	return func(s *Service) {
		if root != "" {
			s.dataRoot = root
		}
	}
}

// WithWorkerCount sets the number of kernel workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize bounds the kernel job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithNormalizer sets the dimension normalizer used by the kernel.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(s *Service) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// WithScorer sets the composite scorer used by the kernel.
func WithScorer(sc *scoring.Scorer) Option {
	return func(s *Service) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// WithClientPlayers maps client identifiers to the display name of their
// own player, used to flag isClient in the overview.
func WithClientPlayers(m map[string]string) Option {
	return func(s *Service) {
		if m != nil {
			s.clientPlayers = m
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		states:        make(map[string]WaveState),
		dataRoot:      "data",
		workerCount:   runtime.NumCPU(),
		queueSize:     64,
		clientPlayers: map[string]string{},
		logger:        logger.Get().Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start wires the store, kernel, and worker pool. The pool runs until Stop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}

	s.store = artifacts.New(s.dataRoot, artifacts.WithLogger(s.logger.Named("artifacts")))

	var kopts []kernel.Option
	kopts = append(kopts, kernel.WithLogger(s.logger.Named("kernel")))
	if s.normalizer != nil {
		kopts = append(kopts, kernel.WithNormalizer(s.normalizer))
	}
	if s.scorer != nil {
		kopts = append(kopts, kernel.WithScorer(s.scorer))
	}
	s.kernel = kernel.New(kopts...)
	s.pool = kernel.NewPool(s.kernel,
		kernel.WithWorkerCount(s.workerCount),
		kernel.WithQueueSize(s.queueSize),
		kernel.WithPoolLogger(s.logger.Named("kernel-pool")),
	)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "service started",
		logger.String("data_root", s.dataRoot),
		logger.Int("workers", s.workerCount),
	)
	return nil
}

// Stop drains the worker pool.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	s.pool.Stop()
	s.started = false
	s.logger.Info(ctx, "service stopped")
	return nil
}

// GetOverview returns the overview artifact, computing the wave first if
// needed.
func (s *Service) GetOverview(ctx context.Context, client, waveID string) (*model.Overview, error) {
	wave, err := s.ensure(ctx, client, waveID)
	if err != nil {
		return nil, err
	}
	var out model.Overview
	if err := s.store.ReadJSON(s.store.OverviewPath(client, wave), &out); err != nil {
		return nil, s.enrich(client, wave, fmt.Errorf("%v: %w", err, kernel.ErrComputationFailed))
	}
	return &out, nil
}

// GetRadar returns the radar artifact, computing the wave first if needed.
func (s *Service) GetRadar(ctx context.Context, client, waveID string) (*model.Radar, error) {
	wave, err := s.ensure(ctx, client, waveID)
	if err != nil {
		return nil, err
	}
	var out model.Radar
	if err := s.store.ReadJSON(s.store.RadarPath(client, wave), &out); err != nil {
		return nil, s.enrich(client, wave, fmt.Errorf("%v: %w", err, kernel.ErrComputationFailed))
	}
	return &out, nil
}

// GetMetrics returns the metrics artifact, computing the wave first if
// needed.
func (s *Service) GetMetrics(ctx context.Context, client, waveID string) (*model.Metrics, error) {
	wave, err := s.ensure(ctx, client, waveID)
	if err != nil {
		return nil, err
	}
	var out model.Metrics
	if err := s.store.ReadJSON(s.store.MetricsPath(client, wave), &out); err != nil {
		return nil, s.enrich(client, wave, fmt.Errorf("%v: %w", err, kernel.ErrComputationFailed))
	}
	return &out, nil
}

// ListWaves returns the computed waves of a client, most recent first.
func (s *Service) ListWaves(ctx context.Context, client string) ([]string, error) {
	return s.store.ListWaves(client)
}

// GetStats returns a snapshot of orchestrator activity.
func (s *Service) GetStats(ctx context.Context) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	states := make(map[string]WaveState, len(s.states))
	for k, v := range s.states {
		states[k] = v
	}
	return Stats{
		WavesComputed: s.wavesComputed,
		WavesFailed:   s.wavesFailed,
		CacheHits:     s.cacheHits,
		BuildsJoined:  s.buildsJoined,
		States:        states,
	}
}

// ensure parses the wave identifier and guarantees its artifacts exist on
// disk before returning.
func (s *Service) ensure(ctx context.Context, client, waveID string) (model.Wave, error) {
	wave, err := model.ParseWave(waveID)
	if err != nil {
		return model.Wave{}, fmt.Errorf("client %q: %w", client, err)
	}

	key := client + "/" + wave.String()

	// Cheap pre-check outside the singleflight group: once computed, reads
	// never pay for coordination.
	if s.store.HasArtifacts(client, wave) {
		s.markState(key, StateComputed)
		s.bump(&s.cacheHits)
		metrics.RecordCacheHit()
		return wave, nil
	}

	_, err, shared := s.group.Do(key, func() (any, error) {
		// Detach from the request so a caller hanging up cannot abandon a
		// half-written wave for everyone who joins later.
		return nil, s.build(context.WithoutCancel(ctx), client, wave, key)
	})
	if shared {
		s.bump(&s.buildsJoined)
		metrics.RecordBuildJoined()
	}
	if err != nil {
		return model.Wave{}, err
	}
	return wave, nil
}

// build computes one wave end to end and persists every artifact.
func (s *Service) build(ctx context.Context, client string, wave model.Wave, key string) error {
	if s.store.HasArtifacts(client, wave) {
		s.markState(key, StateComputed)
		s.bump(&s.cacheHits)
		metrics.RecordCacheHit()
		return nil
	}
	s.markState(key, StateComputing)

	inputPath, err := s.store.FindRawInput(client, wave)
	if err != nil {
		s.markState(key, StateNotComputed)
		if errors.Is(err, artifacts.ErrInputNotFound) {
			metrics.RecordWaveFailed("input_not_found")
		}
		return s.enrich(client, wave, err)
	}
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	rows, lowConfidence, err := s.scoreRows(ctx, client, wave, base, inputPath)
	if err != nil {
		s.markState(key, StateNotComputed)
		metrics.RecordWaveFailed(failureReason(err))
		return s.enrich(client, wave, err)
	}

	prevTotals, err := s.store.LoadPrevTotals(client, wave)
	if err != nil {
		s.logger.Warn(ctx, "previous wave totals unavailable",
			logger.String("client", client),
			logger.String("wave", wave.String()),
			logger.Error(err),
		)
		prevTotals = nil
	}

	asm := assemble.New(assemble.WithClientPlayer(s.clientPlayerSlug(client)))
	overview := asm.Overview(wave.String(), rows, lowConfidence)
	radar := asm.Radar(wave.String(), rows, lowConfidence)
	mx := asm.Metrics(wave.String(), rows, prevTotals)

	for _, art := range []struct {
		path string
		v    any
	}{
		{s.store.OverviewPath(client, wave), overview},
		{s.store.RadarPath(client, wave), radar},
		{s.store.MetricsPath(client, wave), mx},
	} {
		if err := s.store.WriteJSON(art.path, art.v); err != nil {
			s.markState(key, StateNotComputed)
			metrics.RecordWaveFailed("artifact_write")
			return s.enrich(client, wave, fmt.Errorf("%v: %w", err, kernel.ErrComputationFailed))
		}
	}

	s.markState(key, StateComputed)
	s.bump(&s.wavesComputed)
	metrics.RecordWaveComputed()
	s.logger.Info(ctx, "wave computed",
		logger.String("client", client),
		logger.String("wave", wave.String()),
		logger.Int("players", len(rows)),
		logger.Bool("low_confidence", lowConfidence),
	)
	return nil
}

// scoreRows returns the wave's score rows, reusing a previously written
// Resultado CSV when one exists so the kernel only runs once per wave even
// if the JSON artifacts were removed.
func (s *Service) scoreRows(ctx context.Context, client string, wave model.Wave, base, inputPath string) ([]model.ScoreRow, bool, error) {
	rows, found, err := s.store.ReadResultado(client, wave)
	if err != nil {
		s.logger.Warn(ctx, "stale result unreadable, recomputing",
			logger.String("client", client),
			logger.String("wave", wave.String()),
			logger.Error(err),
		)
	} else if found {
		s.bump(&s.cacheHits)
		metrics.RecordCacheHit()
		return rows, false, nil
	}

	res, err := s.pool.Submit(ctx, kernel.Job{
		ID:        uuid.New(),
		Client:    client,
		Wave:      wave,
		InputPath: inputPath,
	})
	if err != nil {
		return nil, false, err
	}

	if err := s.store.WriteResultado(client, wave, base, res.Scores); err != nil {
		return nil, false, fmt.Errorf("%v: %w", err, kernel.ErrComputationFailed)
	}
	if err := s.store.WriteMetricsExport(client, wave, base, res.Export); err != nil {
		return nil, false, fmt.Errorf("%v: %w", err, kernel.ErrComputationFailed)
	}
	return res.Scores, res.LowConfidence, nil
}

func (s *Service) clientPlayerSlug(client string) string {
	if name, ok := s.clientPlayers[client]; ok {
		return model.Slugify(name)
	}
	return ""
}

func (s *Service) markState(key string, st WaveState) {
	s.mu.Lock()
	s.states[key] = st
	s.mu.Unlock()
}

func (s *Service) bump(counter *int64) {
	s.mu.Lock()
	*counter++
	s.mu.Unlock()
}

// enrich stamps the client and wave onto errors crossing the service
// boundary. Sentinel wrapping is preserved for the HTTP status mapping.
func (s *Service) enrich(client string, wave model.Wave, err error) error {
	return fmt.Errorf("client %q wave %s: %w", client, wave, err)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ingest.ErrInputNotFound), errors.Is(err, artifacts.ErrInputNotFound):
		return "input_not_found"
	case errors.Is(err, ingest.ErrMalformedInput):
		return "malformed_input"
	default:
		return "computation"
	}
}
