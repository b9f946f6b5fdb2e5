package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/fundledger/internal/adapter/http/dto"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type apiClient struct {
	baseURL string
	http    *http.Client
}

// apiError is a non-2xx API response.
type apiError struct {
	Status int
	Body   dto.ErrorResponse
}

func (e *apiError) Error() string {
	if e.Body.Message != "" {
		return fmt.Sprintf("%s (status %d): %s", e.Body.Error, e.Status, e.Body.Message)
	}
	return fmt.Sprintf("%s (status %d)", e.Body.Error, e.Status)
}

func (c *apiClient) do(method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &apiError{Status: resp.StatusCode}
		if err := json.Unmarshal(raw, &apiErr.Body); err != nil || apiErr.Body.Error == "" {
			apiErr.Body.Error = http.StatusText(resp.StatusCode)
		}
		// the consistency endpoint answers 409 with a report body
		if out != nil && resp.StatusCode == http.StatusConflict {
			_ = json.Unmarshal(raw, out)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

func newRootCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	client := &apiClient{}

	rootCmd := &cobra.Command{
		Use:           "fundledger-cli",
		Short:         "FundLedger CLI tool",
		Long:          `A command line interface for interacting with the FundLedger API.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			client.baseURL = baseURL
			client.http = &http.Client{Timeout: timeout}
		},
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the FundLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(accountCmd(client), transferCmd(client), ledgerCmd(client))

	return rootCmd
}

func accountCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	var balance string
	createCmd := &cobra.Command{
		Use:   "create <id>",
		Short: "Open an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opening, err := amountArg(balance)
			if err != nil {
				return err
			}

			var account dto.AccountResponse
			req := createAccountPayload{ID: args[0], OpeningBalance: opening}
			if err := client.do(http.MethodPost, "/api/v1/accounts", req, &account); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), account)
		},
	}
	createCmd.Flags().StringVar(&balance, "balance", "0", "Opening balance")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var account dto.AccountResponse
			if err := client.do(http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0]), nil, &account); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), account)
		},
	}

	var limit, offset int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			query.Set("limit", strconv.Itoa(limit))
			query.Set("offset", strconv.Itoa(offset))

			var resp dto.ListAccountsResponse
			if err := client.do(http.MethodGet, "/api/v1/accounts?"+query.Encode(), nil, &resp); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tBALANCE\tVERSION")
			for _, a := range resp.Accounts {
				fmt.Fprintf(w, "%s\t%s\t%d\n", truncate(a.ID, 32), a.Balance, a.Version)
			}
			return w.Flush()
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	listCmd.Flags().IntVar(&offset, "offset", 0, "Page offset")

	cmd.AddCommand(createCmd, getCmd, listCmd)

	return cmd
}

// Request bodies carry amounts as JSON numbers exactly as typed, so the
// server sees the caller's scale ("10.00" stays "10.00").
type createAccountPayload struct {
	ID             string      `json:"id"`
	OpeningBalance json.Number `json:"opening_balance"`
}

type transferPayload struct {
	FromAccountID string      `json:"from_account_id"`
	ToAccountID   string      `json:"to_account_id"`
	Amount        json.Number `json:"amount"`
}

func amountArg(s string) (json.Number, error) {
	s = strings.TrimSpace(s)
	if _, err := decimal.NewFromString(s); err != nil {
		return "", fmt.Errorf("invalid amount %q", s)
	}

	return json.Number(s), nil
}

func transferCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer <from> <to> <amount>",
		Short: "Move funds between two accounts",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := amountArg(args[2])
			if err != nil {
				return err
			}

			var transfer dto.TransferResponse
			req := transferPayload{FromAccountID: args[0], ToAccountID: args[1], Amount: amount}
			if err := client.do(http.MethodPost, "/api/v1/transfers", req, &transfer); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), transfer)
		},
	}

	return cmd
}

func ledgerCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var report dto.ConsistencyResponse
			err := client.do(http.MethodGet, "/api/v1/ledger/consistency", nil, &report)

			out := cmd.OutOrStdout()
			if err != nil {
				if report.Status != "" {
					fmt.Fprintf(out, "Consistency check FAILED\n")
					fmt.Fprintf(out, "Total balance: %s, opening balances: %s\n", report.TotalBalance, report.TotalOpeningBalance)
				}
				return err
			}

			fmt.Fprintf(out, "Consistency check PASSED\n")
			fmt.Fprintf(out, "Accounts: %d\n", report.Accounts)
			fmt.Fprintf(out, "Total balance: %s\n", report.TotalBalance)

			return nil
		},
	}

	cmd.AddCommand(consistencyCmd)

	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
