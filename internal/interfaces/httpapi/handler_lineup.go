package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fieldpass/fantasy-corps/internal/domain/roster"
	"github.com/fieldpass/fantasy-corps/internal/usecase"
)

type lineupRequest struct {
	Class string            `json:"class" validate:"required"`
	Picks map[string]string `json:"picks" validate:"required,min=1,dive,keys,required,endkeys,required"`
}

type lineupCheckDTO struct {
	Valid       bool   `json:"valid"`
	TotalValue  int64  `json:"totalValue"`
	PointBudget int64  `json:"pointBudget"`
	Headroom    int64  `json:"headroom"`
	Class       string `json:"class"`
}

type lineupClaimDTO struct {
	Class       string `json:"class"`
	Period      string `json:"period"`
	Fingerprint string `json:"fingerprint"`
	TotalValue  int64  `json:"totalValue"`
	SubmittedAt string `json:"submittedAt"`
}

func (h *Handler) ValidateLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ValidateLineup")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req lineupRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	check, err := h.lineupService.Validate(ctx, usecase.LineupInput{
		UserID: principal.UserID,
		Class:  req.Class,
		Picks:  req.Picks,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "validate lineup failed", "user_id", principal.UserID, "class", req.Class, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupCheckDTO{
		Valid:       true,
		TotalValue:  check.TotalValue,
		PointBudget: check.Budget,
		Headroom:    check.Budget - check.TotalValue,
		Class:       req.Class,
	})
}

func (h *Handler) SubmitLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitLineup")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req lineupRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	claim, err := h.lineupService.Submit(ctx, usecase.LineupInput{
		UserID: principal.UserID,
		Class:  req.Class,
		Picks:  req.Picks,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit lineup failed", "user_id", principal.UserID, "class", req.Class, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, claimToDTO(ctx, claim))
}

func claimToDTO(ctx context.Context, claim roster.Claim) lineupClaimDTO {
	ctx, span := startSpan(ctx, "httpapi.claimToDTO")
	defer span.End()

	return lineupClaimDTO{
		Class:       claim.Class.String(),
		Period:      claim.Period,
		Fingerprint: claim.Fingerprint,
		TotalValue:  claim.TotalValue,
		SubmittedAt: claim.SubmittedAt.UTC().Format(time.RFC3339),
	}
}
