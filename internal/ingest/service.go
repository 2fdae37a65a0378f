package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ygodeck/internal/card"
)

type Config struct {
	BatchSize int
}

type Service struct {
	source CardSource
	cards  CardWriter
	runs   Repository
	cache  CacheRefresher
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

func NewService(source CardSource, cards CardWriter, runs Repository, cache CacheRefresher, cfg Config, logger *zap.Logger) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, cards: cards, runs: runs, cache: cache, cfg: cfg, logger: logger, now: time.Now}
}

// Run pulls the upstream card list and upserts it into the catalog. The run
// row is finalized as COMPLETED or FAILED even when the sync errors.
func (s *Service) Run(ctx context.Context) (run Run, err error) {
	run = Run{Status: StatusRunning, StartedAt: s.now().UTC()}
	runID, rErr := s.runs.CreateRun(ctx, &run)
	if rErr != nil {
		return run, fmt.Errorf("create ingest run: %w", rErr)
	}
	run.ID = runID
	log := s.logger.With(zap.String("run_id", run.ID))

	defer func() {
		finished := s.now().UTC()
		run.FinishedAt = &finished
		run.Status = StatusCompleted
		if err != nil {
			run.Status = StatusFailed
			run.Error = err.Error()
		}
		// Close the run row even when ctx was cancelled.
		if updateErr := s.runs.UpdateRun(context.WithoutCancel(ctx), &run); updateErr != nil {
			log.Error("failed to update ingest run", zap.Error(updateErr))
		}
		log.Info("card sync finished",
			zap.String("status", run.Status),
			zap.Int("fetched", run.Fetched),
			zap.Int("skipped", run.Skipped),
			zap.Int("upserted", run.Upserted))
	}()

	data, err := s.source.CardInfo(ctx)
	if err != nil {
		return run, err
	}
	run.Fetched = len(data)
	log.Info("fetched upstream cards", zap.Int("count", run.Fetched))

	batch := make([]card.Card, 0, s.cfg.BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := s.cards.UpsertMany(ctx, batch)
		run.Upserted += n
		batch = batch[:0]
		return err
	}

	for _, d := range data {
		if d.FrameType == skillFrame {
			run.Skipped++
			continue
		}
		c, err := MapCard(d)
		if err != nil {
			run.Skipped++
			var enumErr *enumError
			if !errors.As(err, &enumErr) {
				return run, err
			}
			log.Warn("skipping card", zap.Int("card_id", d.ID), zap.String("name", d.Name), zap.Error(err))
			continue
		}
		batch = append(batch, c)
		if len(batch) == s.cfg.BatchSize {
			if err := flush(); err != nil {
				return run, err
			}
			log.Debug("upserted batch", zap.Int("total", run.Upserted))
		}
	}
	if err := flush(); err != nil {
		return run, err
	}

	if s.cache != nil {
		if err := s.cache.Refresh(ctx); err != nil {
			return run, fmt.Errorf("refresh card cache: %w", err)
		}
	}
	return run, nil
}
