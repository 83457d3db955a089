package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fieldpass/fantasy-corps/internal/domain/auction"
	"github.com/fieldpass/fantasy-corps/internal/domain/caption"
	"github.com/fieldpass/fantasy-corps/internal/usecase"
)

type listAuctionRequest struct {
	StaffID       string `json:"staffId" validate:"required"`
	StartingPrice int64  `json:"startingPrice" validate:"required,min=1"`
	Duration      string `json:"duration" validate:"required"`
}

type placeBidRequest struct {
	Amount int64 `json:"amount" validate:"required,min=1"`
}

type bidDTO struct {
	BidderID string `json:"bidderId"`
	Amount   int64  `json:"amount"`
	PlacedAt string `json:"placedAt"`
}

type auctionDTO struct {
	ID              string   `json:"id"`
	StaffID         string   `json:"staffId"`
	SellerID        string   `json:"sellerId"`
	StartingPrice   int64    `json:"startingPrice"`
	CurrentBid      *int64   `json:"currentBid,omitempty"`
	CurrentBidderID *string  `json:"currentBidderId,omitempty"`
	BidHistory      []bidDTO `json:"bidHistory,omitempty"`
	EndsAt          string   `json:"endsAt"`
	Status          string   `json:"status"`
	WinnerID        *string  `json:"winnerId,omitempty"`
	SalePrice       *int64   `json:"salePrice,omitempty"`
}

type activeAuctionDTO struct {
	Auction       auctionDTO   `json:"auction"`
	Staff         staffCardDTO `json:"staff"`
	TimeRemaining string       `json:"timeRemaining"`
	MinimumBid    int64        `json:"minimumBid"`
}

func (h *Handler) CreateAuction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateAuction")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req listAuctionRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	duration, err := time.ParseDuration(strings.TrimSpace(req.Duration))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid duration %q: %v", usecase.ErrInvalidInput, req.Duration, err))
		return
	}

	created, err := h.auctionService.List(ctx, usecase.ListInput{
		SellerID:      principal.UserID,
		StaffID:       req.StaffID,
		StartingPrice: req.StartingPrice,
		Duration:      duration,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create auction failed", "user_id", principal.UserID, "staff_id", req.StaffID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, auctionToDTO(ctx, created))
}

func (h *Handler) ListActiveAuctions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListActiveAuctions")
	defer span.End()

	var filter auction.CaptionFilter
	if raw := strings.TrimSpace(r.URL.Query().Get("caption")); raw != "" {
		slot, ok := caption.Parse(raw)
		if !ok {
			writeError(ctx, w, fmt.Errorf("%w: unknown caption %q", usecase.ErrInvalidInput, raw))
			return
		}
		filter = auction.CaptionFilter{Slot: slot, Set: true}
	}

	active, err := h.auctionService.ListActive(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list active auctions failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]activeAuctionDTO, 0, len(active))
	for _, a := range active {
		items = append(items, activeAuctionDTO{
			Auction:       auctionToDTO(ctx, a.Auction),
			Staff:         staffCardToDTO(ctx, a.Staff),
			TimeRemaining: a.TimeRemaining,
			MinimumBid:    a.MinimumBid,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PlaceBid")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req placeBidRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	auctionID := strings.TrimSpace(r.PathValue("auctionID"))
	updated, err := h.auctionService.Bid(ctx, principal.UserID, auctionID, req.Amount)
	if err != nil {
		h.logger.WarnContext(ctx, "place bid failed", "user_id", principal.UserID, "auction_id", auctionID, "amount", req.Amount, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, auctionToDTO(ctx, updated))
}

func (h *Handler) CompleteAuction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CompleteAuction")
	defer span.End()

	auctionID := strings.TrimSpace(r.PathValue("auctionID"))
	settled, err := h.auctionService.Complete(ctx, auctionID)
	if err != nil {
		h.logger.WarnContext(ctx, "complete auction failed", "auction_id", auctionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, auctionToDTO(ctx, settled))
}

func (h *Handler) CancelAuction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelAuction")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	auctionID := strings.TrimSpace(r.PathValue("auctionID"))
	cancelled, err := h.auctionService.Cancel(ctx, principal.UserID, auctionID)
	if err != nil {
		h.logger.WarnContext(ctx, "cancel auction failed", "user_id", principal.UserID, "auction_id", auctionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, auctionToDTO(ctx, cancelled))
}

func auctionToDTO(ctx context.Context, a auction.Auction) auctionDTO {
	ctx, span := startSpan(ctx, "httpapi.auctionToDTO")
	defer span.End()

	bids := make([]bidDTO, 0, len(a.BidHistory))
	for _, b := range a.BidHistory {
		bids = append(bids, bidDTO{
			BidderID: b.BidderID,
			Amount:   b.Amount,
			PlacedAt: b.PlacedAt.UTC().Format(time.RFC3339),
		})
	}

	return auctionDTO{
		ID:              a.ID,
		StaffID:         a.StaffID,
		SellerID:        a.SellerID,
		StartingPrice:   a.StartingPrice,
		CurrentBid:      a.CurrentBid,
		CurrentBidderID: a.CurrentBidderID,
		BidHistory:      bids,
		EndsAt:          a.EndsAt.UTC().Format(time.RFC3339),
		Status:          string(a.Status),
		WinnerID:        a.WinnerID,
		SalePrice:       a.SalePrice,
	}
}
