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
		Use:   "bankledger-cli",
		Short: "BankLedger CLI tool",
		Long:  `A command line interface for interacting with the BankLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the BankLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(holdersCmd(), accountsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func holdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holders",
		Short: "Account holder operations",
	}

	var firstName, lastName, birthDate, address string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a holder",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/holders/", map[string]string{
				"first_name": firstName,
				"last_name":  lastName,
				"birth_date": birthDate,
				"address":    address,
			})
		},
	}
	createCmd.Flags().StringVar(&firstName, "first-name", "", "First name")
	createCmd.Flags().StringVar(&lastName, "last-name", "", "Last name")
	createCmd.Flags().StringVar(&birthDate, "birth-date", "", "Birth date (YYYY-MM-DD)")
	createCmd.Flags().StringVar(&address, "address", "", "Address")
	createCmd.MarkFlagRequired("first-name")
	createCmd.MarkFlagRequired("last-name")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Get a holder by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/holders/" + args[0])
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List holders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/holders/")
		},
	}

	cmd.AddCommand(createCmd, getCmd, listCmd)
	return cmd
}

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account and ledger operations",
	}

	var holderID, kind, balance, overdraft, rate string
	openCmd := &cobra.Command{
		Use:   "open",
		Short: "Open an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"holder_id": holderID,
				"kind":      kind,
			}
			if balance != "" {
				req["initial_balance"] = balance
			}
			if overdraft != "" {
				req["overdraft_limit"] = overdraft
			}
			if rate != "" {
				req["interest_rate"] = rate
			}
			return postJSON("/api/v1/accounts/", req)
		},
	}
	openCmd.Flags().StringVar(&holderID, "holder", "", "Holder ID")
	openCmd.Flags().StringVar(&kind, "kind", "current", "Account kind (current or savings)")
	openCmd.Flags().StringVar(&balance, "balance", "", "Initial balance")
	openCmd.Flags().StringVar(&overdraft, "overdraft", "", "Overdraft limit (current accounts)")
	openCmd.Flags().StringVar(&rate, "rate", "", "Interest rate percent (savings accounts)")
	openCmd.MarkFlagRequired("holder")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Get an account by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/accounts/" + args[0])
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/accounts/")
		},
	}

	depositCmd := &cobra.Command{
		Use:   "deposit <id> <amount>",
		Short: "Deposit into an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/accounts/"+args[0]+"/deposit", map[string]string{"amount": args[1]})
		},
	}

	withdrawCmd := &cobra.Command{
		Use:   "withdraw <id> <amount>",
		Short: "Withdraw from an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/accounts/"+args[0]+"/withdraw", map[string]string{"amount": args[1]})
		},
	}

	interestCmd := &cobra.Command{
		Use:   "interest <id>",
		Short: "Accrue interest on a savings account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/accounts/"+args[0]+"/interest", nil)
		},
	}

	transactionsCmd := &cobra.Command{
		Use:   "transactions <id>",
		Short: "List an account's transaction log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/accounts/" + args[0] + "/transactions")
		},
	}

	reconcileCmd := &cobra.Command{
		Use:   "reconcile <id>",
		Short: "Replay an account's log against its stored balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/accounts/" + args[0] + "/reconciliation")
		},
	}

	cmd.AddCommand(openCmd, getCmd, listCmd, depositCmd, withdrawCmd, interestCmd, transactionsCmd, reconcileCmd)
	return cmd
}

func getJSON(path string) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return printResponse(resp)
}

func postJSON(path string, payload any) error {
	body := &bytes.Buffer{}
	if payload != nil {
		if err := json.NewEncoder(body).Encode(payload); err != nil {
			return err
		}
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return fmt.Errorf("unexpected response (status %d): %s", resp.StatusCode, body)
	}
	printJSON(decoded)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%+v\n", v)
		return
	}
	fmt.Println(string(out))
}
