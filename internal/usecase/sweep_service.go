package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/fieldpass/fantasy-corps/internal/domain/auction"
)

// defaultSweepWorkers bounds concurrent settlements during one sweep.
const defaultSweepWorkers = 4

// SweepResult summarizes one pass over expired auctions.
type SweepResult struct {
	Scanned   int               `json:"scanned"`
	Settled   int               `json:"settled"`
	Failed    int               `json:"failed"`
	Auctions  []SweepTaskResult `json:"auctions"`
	StartedAt time.Time         `json:"startedAt"`
	Duration  time.Duration     `json:"-"`
}

// SweepTaskResult is the per-auction outcome within a sweep.
type SweepTaskResult struct {
	AuctionID string `json:"auctionId"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
}

type SweepService struct {
	auctionRepo auction.Repository
	auctions    *AuctionService
	workers     int
	logger      *slog.Logger
	now         func() time.Time
}

func NewSweepService(auctionRepo auction.Repository, auctions *AuctionService, workers int, logger *slog.Logger) *SweepService {
	if workers < 1 {
		workers = defaultSweepWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SweepService{
		auctionRepo: auctionRepo,
		auctions:    auctions,
		workers:     workers,
		logger:      logger,
		now:         time.Now,
	}
}

// Sweep completes every expired, unresolved auction. Settlements run on a
// bounded worker pool; one auction failing never stops the rest, and the
// compare-and-swap claim inside Complete makes overlapping sweeps harmless.
func (s *SweepService) Sweep(ctx context.Context) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SweepService.Sweep")
	defer span.End()

	started := s.now().UTC()
	expired, err := s.auctionRepo.ListExpired(ctx, started)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list expired auctions: %w", err)
	}

	result := SweepResult{Scanned: len(expired), StartedAt: started}
	if len(expired) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return SweepResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	rows := make(chan SweepTaskResult, len(expired))

	var settled atomic.Int32
	var failed atomic.Int32

	var workers sync.WaitGroup
	for _, a := range expired {
		a := a
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := SweepTaskResult{AuctionID: a.ID, Status: "settled"}
			if _, err := s.auctions.Complete(ctx, a.ID); err != nil {
				row.Status = "failed"
				row.Message = err.Error()
				failed.Add(1)
				s.logger.WarnContext(ctx, "sweep settlement failed",
					slog.String("auction_id", a.ID),
					slog.Any("error", err),
				)
			} else {
				settled.Add(1)
			}
			rows <- row
		}); err != nil {
			workers.Done()
			return SweepResult{}, fmt.Errorf("submit auction to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Auctions = append(result.Auctions, row)
	}
	sort.SliceStable(result.Auctions, func(i, j int) bool {
		return result.Auctions[i].AuctionID < result.Auctions[j].AuctionID
	})

	result.Settled = int(settled.Load())
	result.Failed = int(failed.Load())
	result.Duration = s.now().UTC().Sub(started)

	s.logger.InfoContext(ctx, "auction sweep finished",
		slog.Int("scanned", result.Scanned),
		slog.Int("settled", result.Settled),
		slog.Int("failed", result.Failed),
		slog.Duration("duration", result.Duration),
	)

	return result, nil
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (s *SweepService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.ErrorContext(ctx, "auction sweep failed", slog.Any("error", err))
			}
		}
	}
}
