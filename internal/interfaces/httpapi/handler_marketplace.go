package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fieldpass/fantasy-corps/internal/domain/staff"
	"github.com/fieldpass/fantasy-corps/internal/usecase"
)

type staffCardDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Caption      string `json:"caption"`
	YearInducted int    `json:"yearInducted"`
	BaseValue    int64  `json:"baseValue"`
	Biography    string `json:"biography,omitempty"`
}

type marketplaceListingDTO struct {
	Staff staffCardDTO `json:"staff"`
	Owned bool         `json:"owned"`
}

type ownedStaffDTO struct {
	StaffID          string              `json:"staffId"`
	CurrentValue     int64               `json:"currentValue"`
	Assignment       *staffAssignmentDTO `json:"assignment,omitempty"`
	SeasonsCompleted int                 `json:"seasonsCompleted"`
	PurchasedAt      string              `json:"purchasedAt"`
}

type staffAssignmentDTO struct {
	Class     string `json:"class"`
	CorpsName string `json:"corpsName"`
}

type staffRosterDTO struct {
	Staff            []ownedStaffDTO `json:"staff"`
	AssignedPerClass map[string]int  `json:"assignedPerClass"`
}

// An absent or null class unassigns the card, same as the explicit clear flag.
type assignStaffRequest struct {
	Class     string `json:"class"`
	CorpsName string `json:"corpsName"`
	Clear     bool   `json:"clear"`
}

func (h *Handler) BrowseMarketplace(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BrowseMarketplace")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	force := strings.EqualFold(strings.TrimSpace(r.URL.Query().Get("refresh")), "true")
	listings, err := h.marketplaceService.Browse(ctx, principal.UserID, force)
	if err != nil {
		h.logger.WarnContext(ctx, "browse marketplace failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]marketplaceListingDTO, 0, len(listings))
	for _, listing := range listings {
		items = append(items, marketplaceListingDTO{
			Staff: staffCardToDTO(ctx, listing.Card),
			Owned: listing.Owned,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) PurchaseStaff(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PurchaseStaff")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	staffID := strings.TrimSpace(r.PathValue("staffID"))
	owned, err := h.marketplaceService.Purchase(ctx, principal.UserID, staffID)
	if err != nil {
		h.logger.WarnContext(ctx, "purchase staff failed", "user_id", principal.UserID, "staff_id", staffID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ownedStaffToDTO(ctx, owned))
}

func (h *Handler) AssignStaff(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AssignStaff")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req assignStaffRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	staffID := strings.TrimSpace(r.PathValue("staffID"))
	owned, err := h.marketplaceService.Assign(ctx, usecase.AssignmentInput{
		UserID:    principal.UserID,
		StaffID:   staffID,
		Class:     req.Class,
		CorpsName: req.CorpsName,
		Clear:     req.Clear,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "assign staff failed", "user_id", principal.UserID, "staff_id", staffID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ownedStaffToDTO(ctx, owned))
}

func (h *Handler) GetMyStaffRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyStaffRoster")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	owned, counts, err := h.marketplaceService.Roster(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get staff roster failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]ownedStaffDTO, 0, len(owned))
	for _, o := range owned {
		items = append(items, ownedStaffToDTO(ctx, o))
	}

	perClass := make(map[string]int, len(counts))
	for class, count := range counts {
		perClass[class.String()] = count
	}

	writeSuccess(ctx, w, http.StatusOK, staffRosterDTO{
		Staff:            items,
		AssignedPerClass: perClass,
	})
}

func staffCardToDTO(ctx context.Context, card staff.Card) staffCardDTO {
	ctx, span := startSpan(ctx, "httpapi.staffCardToDTO")
	defer span.End()

	return staffCardDTO{
		ID:           card.ID,
		Name:         card.Name,
		Caption:      card.Caption.String(),
		YearInducted: card.YearInducted,
		BaseValue:    card.BaseValue,
		Biography:    card.Biography,
	}
}

func ownedStaffToDTO(ctx context.Context, owned staff.Owned) ownedStaffDTO {
	ctx, span := startSpan(ctx, "httpapi.ownedStaffToDTO")
	defer span.End()

	dto := ownedStaffDTO{
		StaffID:          owned.StaffID,
		CurrentValue:     owned.CurrentValue,
		SeasonsCompleted: owned.SeasonsCompleted,
		PurchasedAt:      owned.PurchasedAt.UTC().Format(time.RFC3339),
	}
	if owned.AssignedTo != nil {
		dto.Assignment = &staffAssignmentDTO{
			Class:     owned.AssignedTo.Class.String(),
			CorpsName: owned.AssignedTo.CorpsName,
		}
	}

	return dto
}
