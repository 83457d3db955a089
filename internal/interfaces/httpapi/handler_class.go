package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/fieldpass/fantasy-corps/internal/usecase"
)

type registrationStatusDTO struct {
	Class           string `json:"class"`
	Unlocked        bool   `json:"unlocked"`
	CanRegister     bool   `json:"canRegister"`
	Cost            int64  `json:"cost"`
	RequiresPayment bool   `json:"requiresPayment"`
	Reason          string `json:"reason,omitempty"`
}

func (h *Handler) GetClassRegistration(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetClassRegistration")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	className := strings.TrimSpace(r.PathValue("class"))
	status, err := h.unlockService.Registration(ctx, principal.UserID, className)
	if err != nil {
		h.logger.WarnContext(ctx, "get class registration failed", "user_id", principal.UserID, "class", className, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, registrationStatusToDTO(ctx, status))
}

func (h *Handler) UnlockClass(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UnlockClass")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	className := strings.TrimSpace(r.PathValue("class"))
	status, err := h.unlockService.Unlock(ctx, principal.UserID, className)
	if err != nil {
		h.logger.WarnContext(ctx, "unlock class failed", "user_id", principal.UserID, "class", className, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, registrationStatusToDTO(ctx, status))
}

func registrationStatusToDTO(ctx context.Context, status usecase.RegistrationStatus) registrationStatusDTO {
	ctx, span := startSpan(ctx, "httpapi.registrationStatusToDTO")
	defer span.End()

	return registrationStatusDTO{
		Class:           status.Class.String(),
		Unlocked:        status.Unlocked,
		CanRegister:     status.CanRegister,
		Cost:            status.Cost,
		RequiresPayment: status.RequiresPayment,
		Reason:          status.Reason,
	}
}
