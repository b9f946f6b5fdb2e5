package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/fundledger/internal/adapter/http/dto"
	"github.com/iho/fundledger/internal/usecase"
)

type ledgerServiceFunc func(ctx context.Context) (*usecase.ConsistencyReport, error)

func (f ledgerServiceFunc) CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error) {
	return f(ctx)
}

func TestLedgerHandler_CheckConsistency(t *testing.T) {
	balanced := &usecase.ConsistencyReport{
		Accounts:            2,
		TotalBalance:        decimal.NewFromInt(20),
		TotalOpeningBalance: decimal.NewFromInt(20),
	}
	drifted := &usecase.ConsistencyReport{
		Accounts:            2,
		TotalBalance:        decimal.NewFromInt(21),
		TotalOpeningBalance: decimal.NewFromInt(20),
	}

	tests := []struct {
		name       string
		report     *usecase.ConsistencyReport
		err        error
		expected   int
		consistent bool
	}{
		{"consistent", balanced, nil, http.StatusOK, true},
		{"inconsistent", drifted, usecase.ErrInconsistentLedger, http.StatusConflict, false},
		{"failure", nil, errors.New("boom"), http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewLedgerHandler(ledgerServiceFunc(func(ctx context.Context) (*usecase.ConsistencyReport, error) {
				return tt.report, tt.err
			}))

			rec := httptest.NewRecorder()
			handler.CheckConsistency(rec, httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil))

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}

			if tt.report == nil {
				return
			}

			var resp dto.ConsistencyResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Consistent != tt.consistent {
				t.Fatalf("expected consistent=%v, got %+v", tt.consistent, resp)
			}
		})
	}
}
