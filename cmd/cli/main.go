package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL   string
	timeout   time.Duration
	authToken string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "henolactl",
		Short: "Cafe Henola ledger CLI",
		Long:  `A command line interface for interacting with the Cafe Henola ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "Bearer token for authenticated deployments")

	obligationCmd := &cobra.Command{
		Use:   "obligation",
		Short: "Obligation operations",
	}

	var listKind string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List obligations",
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/v1/obligations/"
			if listKind != "" {
				path += "?kind=" + listKind
			}
			getAndPrint(path)
		},
	}
	listCmd.Flags().StringVar(&listKind, "kind", "", "Filter by kind (contract|deposit|sale)")

	getCmd := &cobra.Command{
		Use:   "get <obligation-id>",
		Short: "Show a single obligation",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getAndPrint("/api/v1/obligations/" + args[0])
		},
	}

	balanceCmd := &cobra.Command{
		Use:   "balance <obligation-id>",
		Short: "Show the outstanding balance of an obligation",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getAndPrint("/api/v1/obligations/" + args[0] + "/balance")
		},
	}

	obligationCmd.AddCommand(listCmd, getCmd, balanceCmd)
	rootCmd.AddCommand(obligationCmd)

	movementCmd := &cobra.Command{
		Use:   "movement",
		Short: "Movement operations",
	}

	movementVoidCmd := &cobra.Command{
		Use:   "void <movement-id>",
		Short: "Void a single movement",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			postAndPrint("/api/v1/movements/" + args[0] + "/void")
		},
	}

	movementCmd.AddCommand(movementVoidCmd)
	rootCmd.AddCommand(movementCmd)

	liquidationCmd := &cobra.Command{
		Use:   "liquidation",
		Short: "Liquidation batch operations",
	}

	liquidationVoidCmd := &cobra.Command{
		Use:   "void <batch-id>",
		Short: "Void a liquidation batch and restore its obligations",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			postAndPrint("/api/v1/liquidations/" + args[0] + "/void")
		},
	}

	liquidationCmd.AddCommand(liquidationVoidCmd)
	rootCmd.AddCommand(liquidationCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func getAndPrint(path string) {
	doRequest(http.MethodGet, path)
}

func postAndPrint(path string) {
	doRequest(http.MethodPost, path)
}

func doRequest(method, path string) {
	req, err := http.NewRequest(method, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

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

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return strings.Repeat(".", max)
	}
	return s[:max-3] + "..."
}
