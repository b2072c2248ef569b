package ingest

import (
	"context"
	"strings"
	"sync"
	"time"

	"homeservices/internal/catalog"
	"homeservices/internal/platform/upstream"

	"go.uber.org/zap"
)

// Upserter stores one mirrored record.
type Upserter interface {
	Upsert(ctx context.Context, rec catalog.ServiceRecord) (created bool, err error)
}

type Service struct {
	fetcher Fetcher
	catalog Upserter
	runs    Repository
	source  string
	logger  *zap.Logger
	now     func() time.Time

	mu sync.Mutex
}

func NewService(fetcher Fetcher, catalog Upserter, runs Repository, source string, logger *zap.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		catalog: catalog,
		runs:    runs,
		source:  source,
		logger:  logger,
		now:     time.Now,
	}
}

func toRecord(r upstream.Record) catalog.ServiceRecord {
	return catalog.ServiceRecord{
		ExternalID: r.Key(),
		Title:      strings.TrimSpace(r.Title),
		Category:   strings.TrimSpace(r.Category),
		Price:      float64(r.Price),
		Discount:   float64(r.Discount),
		Unit:       strings.TrimSpace(r.Unit),
		Features:   r.Features,
	}
}

// Run fetches the upstream snapshot and upserts every record by external id. Only one
// run may be active at a time. A fetch failure fails the run; a failing record is
// logged and counted as skipped.
func (s *Service) Run(ctx context.Context) (run Run, err error) {
	if !s.mu.TryLock() {
		return Run{}, ErrAlreadyRunning
	}
	defer s.mu.Unlock()

	run = Run{Status: StatusRunning, Source: s.source, StartedAt: s.now()}
	if err := s.runs.CreateRun(ctx, &run); err != nil {
		return Run{}, err
	}
	log := s.logger.With(zap.String("run_id", run.ID))
	log.Info("sync started", zap.String("source", s.source))

	defer func() {
		finished := s.now()
		run.FinishedAt = &finished
		run.Status = StatusCompleted
		if err != nil {
			run.Status = StatusFailed
			run.Error = err.Error()
		}
		// record the outcome even if the caller went away
		if updateErr := s.runs.UpdateRun(context.WithoutCancel(ctx), &run); updateErr != nil {
			log.Error("update sync run", zap.Error(updateErr))
		}
		log.Info("sync finished",
			zap.String("status", string(run.Status)),
			zap.Int("fetched", run.Fetched),
			zap.Int("created", run.Created),
			zap.Int("updated", run.Updated),
			zap.Int("skipped", run.Skipped),
			zap.Duration("took", finished.Sub(run.StartedAt)),
		)
	}()

	records, err := s.fetcher.FetchServices(ctx)
	if err != nil {
		return run, err
	}
	run.Fetched = len(records)

	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return run, err
		}
		rec := toRecord(r)
		if rec.ExternalID == "" || rec.Title == "" {
			run.Skipped++
			log.Warn("skip upstream record without id or title", zap.String("external_id", rec.ExternalID))
			continue
		}
		created, err := s.catalog.Upsert(ctx, rec)
		if err != nil {
			run.Skipped++
			log.Warn("upsert failed", zap.String("external_id", rec.ExternalID), zap.Error(err))
			continue
		}
		if created {
			run.Created++
		} else {
			run.Updated++
		}
	}
	return run, nil
}

func (s *Service) LatestRun(ctx context.Context) (Run, error) {
	return s.runs.LatestRun(ctx)
}
