package main

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/fundledger/internal/adapter/http"
	"github.com/iho/fundledger/internal/adapter/http/handler"
	"github.com/iho/fundledger/internal/adapter/repository/memory"
	"github.com/iho/fundledger/internal/usecase"
)

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()

	accounts := memory.NewAccountRepository()
	transfers := memory.NewTransferRepository()
	logger := zerolog.Nop()

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:  handler.NewAccountHandler(usecase.NewAccountUseCase(accounts)),
		TransferHandler: handler.NewTransferHandler(usecase.NewTransferUseCase(accounts, transfers, nil, memory.NewULIDGenerator(), nil, logger)),
		LedgerHandler:   handler.NewLedgerHandler(usecase.NewLedgerUseCase(accounts)),
		HealthHandler:   handler.NewHealthHandler(nil),
		Logger:          logger,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv
}

func execute(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--url", srv.URL}, args...))

	err := cmd.Execute()

	return out.String(), err
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printJSON(&buf, struct {
		A int `json:"a"`
	}{A: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "{\n  \"a\": 1\n}\n"
	if buf.String() != expected {
		t.Fatalf("unexpected json output:\n%s", buf.String())
	}
}

func TestCLI_AccountAndTransferCommands(t *testing.T) {
	srv := newAPI(t)

	for _, id := range []string{"ID-A", "ID-B"} {
		if _, err := execute(t, srv, "account", "create", id, "--balance", "10.00"); err != nil {
			t.Fatalf("account create %s failed: %v", id, err)
		}
	}

	out, err := execute(t, srv, "transfer", "ID-A", "ID-B", "10.00")
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if !strings.Contains(out, `"amount": "10.00"`) {
		t.Fatalf("expected transfer receipt, got %s", out)
	}

	out, err = execute(t, srv, "account", "get", "ID-B")
	if err != nil {
		t.Fatalf("account get failed: %v", err)
	}
	if !strings.Contains(out, `"balance": "20.00"`) {
		t.Fatalf("expected balance 20.00, got %s", out)
	}

	out, err = execute(t, srv, "account", "list")
	if err != nil {
		t.Fatalf("account list failed: %v", err)
	}
	if !strings.Contains(out, "ID-A") || !strings.Contains(out, "0.00") {
		t.Fatalf("expected both accounts listed, got %s", out)
	}

	out, err = execute(t, srv, "ledger", "consistency")
	if err != nil {
		t.Fatalf("consistency failed: %v", err)
	}
	if !strings.Contains(out, "PASSED") || !strings.Contains(out, "20.00") {
		t.Fatalf("expected passing check, got %s", out)
	}
}

func TestCLI_TransferErrorsSurface(t *testing.T) {
	srv := newAPI(t)

	if _, err := execute(t, srv, "account", "create", "ID-A", "--balance", "10.00"); err != nil {
		t.Fatalf("account create failed: %v", err)
	}
	if _, err := execute(t, srv, "account", "create", "ID-B"); err != nil {
		t.Fatalf("account create failed: %v", err)
	}

	_, err := execute(t, srv, "transfer", "ID-A", "ID-B", "50.00")
	if err == nil || !strings.Contains(err.Error(), "insufficient balance in account : ID-A, unable to withdraw amount: 50.00") {
		t.Fatalf("expected insufficient funds error, got %v", err)
	}

	_, err = execute(t, srv, "account", "get", "ID-Z")
	if err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("expected not found error, got %v", err)
	}

	if _, err := execute(t, srv, "transfer", "ID-A"); err == nil {
		t.Fatalf("expected argument validation error")
	}

	_, err = execute(t, srv, "transfer", "ID-A", "ID-B", "ten")
	if err == nil || !strings.Contains(err.Error(), `invalid amount "ten"`) {
		t.Fatalf("expected invalid amount error, got %v", err)
	}

	out, err := execute(t, srv, "transfer", "ID-A", "ID-B", "2.50")
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if !strings.Contains(out, `"amount": "2.50"`) {
		t.Fatalf("expected amount scale to survive, got %s", out)
	}
}
