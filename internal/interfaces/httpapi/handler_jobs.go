package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fieldpass/fantasy-corps/internal/usecase"
)

type sweepResultDTO struct {
	Scanned    int                       `json:"scanned"`
	Settled    int                       `json:"settled"`
	Failed     int                       `json:"failed"`
	Auctions   []usecase.SweepTaskResult `json:"auctions"`
	StartedAt  string                    `json:"startedAt"`
	DurationMS int64                     `json:"durationMs"`
}

func (h *Handler) RunAuctionSweepJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunAuctionSweepJob")
	defer span.End()

	if h.sweepService == nil {
		writeError(ctx, w, fmt.Errorf("%w: sweep service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.sweepService.Sweep(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "auction sweep job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sweepResultDTO{
		Scanned:    result.Scanned,
		Settled:    result.Settled,
		Failed:     result.Failed,
		Auctions:   result.Auctions,
		StartedAt:  result.StartedAt.UTC().Format(time.RFC3339),
		DurationMS: result.Duration.Milliseconds(),
	})
}
