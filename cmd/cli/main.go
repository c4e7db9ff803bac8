package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "minibank-cli",
		Short: "Minibank CLI tool",
		Long:  `A command line interface for interacting with the Minibank transfer API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Minibank API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Account commands
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	accountCmd.AddCommand(&cobra.Command{
		Use:   "get <account-id>",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			apiGet("/api/v1/accounts/" + args[0])
		},
	})

	accountCmd.AddCommand(&cobra.Command{
		Use:   "balance <account-id>",
		Short: "Show an account balance",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			apiGet("/api/v1/accounts/" + args[0] + "/balance")
		},
	})

	accountCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Run: func(cmd *cobra.Command, args []string) {
			apiGet("/api/v1/accounts")
		},
	})

	rootCmd.AddCommand(accountCmd)

	// Transfer commands
	transferCmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer operations",
	}

	var (
		fromAccount    string
		toAccount      string
		amount         string
		description    string
		idempotencyKey string
	)

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Initiate a transfer",
		Run: func(cmd *cobra.Command, args []string) {
			payload := map[string]string{
				"from_account_id": fromAccount,
				"to_account_id":   toAccount,
				"amount":          amount,
			}
			if description != "" {
				payload["description"] = description
			}
			apiPost("/api/v1/transfers", payload, idempotencyKey)
		},
	}
	createCmd.Flags().StringVar(&fromAccount, "from", "", "Source account ID")
	createCmd.Flags().StringVar(&toAccount, "to", "", "Destination account ID")
	createCmd.Flags().StringVar(&amount, "amount", "", "Transfer amount")
	createCmd.Flags().StringVar(&description, "description", "", "Transfer description")
	createCmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency-Key header value")
	_ = createCmd.MarkFlagRequired("from")
	_ = createCmd.MarkFlagRequired("to")
	_ = createCmd.MarkFlagRequired("amount")
	transferCmd.AddCommand(createCmd)

	transferCmd.AddCommand(&cobra.Command{
		Use:   "get <transaction-id>",
		Short: "Show a transaction",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			apiGet("/api/v1/transfers/" + args[0])
		},
	})

	transferCmd.AddCommand(&cobra.Command{
		Use:   "history <account-id>",
		Short: "Show an account's transfer history",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			apiGet("/api/v1/accounts/" + args[0] + "/transfers")
		},
	})

	rootCmd.AddCommand(transferCmd)

	// Reconciliation commands
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Reconciliation reports",
	}

	var reportDate string

	dailyCmd := &cobra.Command{
		Use:   "daily",
		Short: "Show the end-of-day reconciliation report",
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/v1/reconciliation/daily"
			if reportDate != "" {
				path += "?date=" + reportDate
			}
			apiGet(path)
		},
	}
	dailyCmd.Flags().StringVar(&reportDate, "date", "", "Report date (YYYY-MM-DD, defaults to today)")
	reportCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(reportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func apiGet(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func apiPost(path string, payload any, idempotencyKey string) {
	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Failed to encode request: %v\n", err)
		os.Exit(1)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	printJSON(result)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to encode output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
