package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/fieldpass/fantasy-corps/internal/domain/auction"
	"github.com/fieldpass/fantasy-corps/internal/domain/profile"
	"github.com/fieldpass/fantasy-corps/internal/domain/roster"
	"github.com/fieldpass/fantasy-corps/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestMapError_DomainSentinels(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
	}{
		{name: "budget exceeded", err: fmt.Errorf("%w: 95 over 90", roster.ErrBudgetExceeded), wantStatus: http.StatusBadRequest, wantReason: "budgetExceeded"},
		{name: "duplicate lineup", err: roster.ErrDuplicateLineupClaimed, wantStatus: http.StatusConflict, wantReason: "duplicateLineup"},
		{name: "trade limit", err: roster.ErrTradeLimitExceeded, wantStatus: http.StatusConflict, wantReason: "tradeLimitReached"},
		{name: "bid too low", err: fmt.Errorf("%w: minimum is 110", auction.ErrBidTooLow), wantStatus: http.StatusBadRequest, wantReason: "bidTooLow"},
		{name: "auction ended", err: auction.ErrAuctionEnded, wantStatus: http.StatusConflict, wantReason: "auctionEnded"},
		{name: "version conflict", err: auction.ErrVersionConflict, wantStatus: http.StatusConflict, wantReason: "concurrentUpdate"},
		{name: "insufficient funds", err: profile.ErrInsufficientFunds, wantStatus: http.StatusPaymentRequired, wantReason: "insufficientFunds"},
		{name: "not found", err: fmt.Errorf("%w: auction missing", usecase.ErrNotFound), wantStatus: http.StatusNotFound, wantReason: "notFound"},
		{name: "unknown error", err: fmt.Errorf("boom"), wantStatus: http.StatusInternalServerError, wantReason: "internalError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapError(context.Background(), tt.err)
			if mapped.HTTPStatus != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, mapped.HTTPStatus)
			}
			if mapped.Reason != tt.wantReason {
				t.Fatalf("expected reason %q, got %q", tt.wantReason, mapped.Reason)
			}
		})
	}
}
