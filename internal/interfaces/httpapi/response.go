package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/fieldpass/fantasy-corps/internal/domain/auction"
	"github.com/fieldpass/fantasy-corps/internal/domain/gameclass"
	"github.com/fieldpass/fantasy-corps/internal/domain/profile"
	"github.com/fieldpass/fantasy-corps/internal/domain/roster"
	"github.com/fieldpass/fantasy-corps/internal/domain/staff"
	"github.com/fieldpass/fantasy-corps/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "fantasy-corps"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(ctx, err)
	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: err.Error(),
			Status:  mapped.Status,
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  mapped.Reason,
					Message: err.Error(),
				},
			},
		},
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	const msg = "internal server error"

	writeJSON(ctx, w, http.StatusInternalServerError, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    http.StatusInternalServerError,
			Message: msg,
			Status:  "INTERNAL",
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  "internalError",
					Message: msg,
				},
			},
		},
	})
}

func mapError(ctx context.Context, err error) mappedError {
	ctx, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	switch {
	case errors.Is(err, roster.ErrBudgetExceeded):
		return mappedError{
			HTTPStatus: http.StatusBadRequest,
			Reason:     "budgetExceeded",
			Status:     "INVALID_ARGUMENT",
		}
	case errors.Is(err, roster.ErrIncompleteLineup),
		errors.Is(err, roster.ErrMissingCaptions),
		errors.Is(err, roster.ErrDuplicateCorpsSelection):
		return mappedError{
			HTTPStatus: http.StatusBadRequest,
			Reason:     "invalidLineup",
			Status:     "INVALID_ARGUMENT",
		}
	case errors.Is(err, roster.ErrDuplicateLineupClaimed):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "duplicateLineup",
			Status:     "ALREADY_EXISTS",
		}
	case errors.Is(err, roster.ErrTradeLimitExceeded):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "tradeLimitReached",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, gameclass.ErrInvalidClass):
		return mappedError{
			HTTPStatus: http.StatusBadRequest,
			Reason:     "invalidClass",
			Status:     "INVALID_ARGUMENT",
		}
	case errors.Is(err, gameclass.ErrRegistrationWindowClosed):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "registrationClosed",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, gameclass.ErrInsufficientProgress):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "insufficientProgress",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, profile.ErrInsufficientFunds):
		return mappedError{
			HTTPStatus: http.StatusPaymentRequired,
			Reason:     "insufficientFunds",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, auction.ErrBidTooLow):
		return mappedError{
			HTTPStatus: http.StatusBadRequest,
			Reason:     "bidTooLow",
			Status:     "INVALID_ARGUMENT",
		}
	case errors.Is(err, auction.ErrAuctionEnded):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "auctionEnded",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, auction.ErrAuctionHasBids):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "auctionHasBids",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, auction.ErrVersionConflict):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "concurrentUpdate",
			Status:     "ABORTED",
		}
	case errors.Is(err, staff.ErrAlreadyOwned):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "alreadyOwned",
			Status:     "ALREADY_EXISTS",
		}
	case errors.Is(err, staff.ErrNotOwned):
		return mappedError{
			HTTPStatus: http.StatusNotFound,
			Reason:     "notOwned",
			Status:     "NOT_FOUND",
		}
	case errors.Is(err, staff.ErrAlreadyListedForAuction):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "listedForAuction",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, usecase.ErrInvalidInput):
		return mappedError{
			HTTPStatus: http.StatusBadRequest,
			Reason:     "invalidInput",
			Status:     "INVALID_ARGUMENT",
		}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{
			HTTPStatus: http.StatusNotFound,
			Reason:     "notFound",
			Status:     "NOT_FOUND",
		}
	case errors.Is(err, usecase.ErrUnauthorized):
		return mappedError{
			HTTPStatus: http.StatusUnauthorized,
			Reason:     "unauthorized",
			Status:     "UNAUTHENTICATED",
		}
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return mappedError{
			HTTPStatus: http.StatusServiceUnavailable,
			Reason:     "dependencyUnavailable",
			Status:     "UNAVAILABLE",
		}
	default:
		return mappedError{
			HTTPStatus: http.StatusInternalServerError,
			Reason:     "internalError",
			Status:     "INTERNAL",
		}
	}
}
