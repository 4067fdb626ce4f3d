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
		Use:   "gowallet-cli",
		Short: "GoWallet CLI tool",
		Long:  `A command line interface for interacting with the GoWallet API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the GoWallet API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	walletCmd := &cobra.Command{
		Use:   "wallet",
		Short: "Wallet operations",
	}
	walletCmd.AddCommand(walletGetCmd())
	walletCmd.AddCommand(walletTransfersCmd())

	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(transferCmd())
	rootCmd.AddCommand(healthCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func walletGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <wallet-id>",
		Short: "Show a wallet and its balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/wallets/" + args[0])
		},
	}
}

func walletTransfersCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "transfers <wallet-id>",
		Short: "List transfers involving a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/wallets/%s/transfers?limit=%d&offset=%d", args[0], limit, offset)
			return getJSON(path)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of transfers to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of transfers to skip")
	return cmd
}

func transferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <payer-wallet-id> <payee-wallet-id> <value>",
		Short: "Transfer money between two wallets",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := json.Marshal(map[string]string{
				"payer": args[0],
				"payee": args[1],
				"value": args[2],
			})
			if err != nil {
				return err
			}

			client := &http.Client{Timeout: timeout}
			resp, err := client.Post(baseURL+"/api/v1/transfer", "application/json", bytes.NewReader(payload))
			if err != nil {
				return fmt.Errorf("request failed: %w", err)
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusCreated {
				return fmt.Errorf("transfer failed (status %d): %s", resp.StatusCode, string(body))
			}

			return printRawJSON(body)
		},
	}
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check API health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/health")
		},
	}
}

func getJSON(path string) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(body))
	}

	return printRawJSON(body)
}

func printRawJSON(body []byte) error {
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	printJSON(value)
	return nil
}

func printJSON(value any) {
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", value)
		return
	}
	fmt.Println(string(out))
}
