package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/wealthledger/internal/adapter/http/dto"
	"github.com/iho/wealthledger/internal/domain"
)

var (
	baseURL  string
	timeout  time.Duration
	jsonMode bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wealthledger-cli",
		Short:         "WealthLedger CLI tool",
		Long:          `A command line interface for interacting with the WealthLedger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the WealthLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&jsonMode, "json", false, "Print raw JSON responses")

	assetsCmd := &cobra.Command{
		Use:   "assets",
		Short: "Asset operations",
	}
	assetsCmd.AddCommand(listAssetsCmd())

	yieldsCmd := &cobra.Command{
		Use:   "yields",
		Short: "Yield operations",
	}
	yieldsCmd.AddCommand(calculateYieldsCmd())

	rootCmd.AddCommand(summaryCmd(), assetsCmd, yieldsCmd, exportCmd(), importCmd())

	return rootCmd
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the portfolio summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var summary domain.AssetSummary
			if err := doJSON(cmd, http.MethodGet, "/api/v1/summary", nil, "", &summary); err != nil {
				return err
			}
			if jsonMode {
				return printJSON(cmd.OutOrStdout(), summary)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total value:   %s\n", summary.TotalValue.StringFixed(2))
			fmt.Fprintf(out, "Total initial: %s\n", summary.TotalInitial.StringFixed(2))
			fmt.Fprintf(out, "Total yield:   %s (%s%%)\n", summary.TotalYield.StringFixed(2), summary.TotalYieldRate.StringFixed(2))
			fmt.Fprintln(out)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tCOUNT\tVALUE\tSHARE")
			for _, t := range domain.AssetTypes {
				b, ok := summary.AssetsByType[t]
				if !ok || b.Count == 0 {
					continue
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s%%\n", t.Label(), b.Count, b.TotalValue.StringFixed(2), b.Percentage.StringFixed(2))
			}
			return tw.Flush()
		},
	}
}

func listAssetsCmd() *cobra.Command {
	var query, assetType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{}
			if query != "" {
				params.Set("q", query)
			}
			if assetType != "" {
				params.Set("type", assetType)
			}
			path := "/api/v1/assets/"
			if len(params) > 0 {
				path += "?" + params.Encode()
			}

			var assets []dto.AssetResponse
			if err := doJSON(cmd, http.MethodGet, path, nil, "", &assets); err != nil {
				return err
			}
			if jsonMode {
				return printJSON(cmd.OutOrStdout(), assets)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tTYPE\tINITIAL\tCURRENT\tRATE\tSINCE")
			for _, a := range assets {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s%%\t%s\n",
					a.ID,
					truncate(a.Name, 24),
					a.TypeLabel,
					a.InitialAmount.StringFixed(2),
					a.CurrentValue.StringFixed(2),
					a.InterestRate.String(),
					a.InvestmentDate,
				)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&query, "q", "", "Match name or description")
	cmd.Flags().StringVar(&assetType, "type", "", "Filter by asset type code")

	return cmd
}

func calculateYieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calculate [asset-id]",
		Short: "Calculate yields for one asset or for all assets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				var res dto.CalculateYieldResponse
				if err := doJSON(cmd, http.MethodPost, "/api/v1/assets/"+url.PathEscape(args[0])+"/yield", nil, "", &res); err != nil {
					return err
				}
				if jsonMode {
					return printJSON(out, res)
				}
				if res.Record == nil {
					fmt.Fprintf(out, "%s: no new yield\n", res.Asset.Name)
				} else {
					fmt.Fprintf(out, "%s: +%s over %d days, value %s\n", res.Asset.Name, res.Record.YieldAmount.StringFixed(2), res.Days, res.Asset.CurrentValue.StringFixed(2))
				}
				printPersistWarning(out, res.PersistStatus)
				return nil
			}

			var res dto.BulkYieldResponse
			if err := doJSON(cmd, http.MethodPost, "/api/v1/yields/calculate", nil, "", &res); err != nil {
				return err
			}
			if jsonMode {
				return printJSON(out, res)
			}

			appended := 0
			for _, r := range res.Results {
				if r.Record != nil {
					appended++
				}
			}
			fmt.Fprintf(out, "Calculated %d assets, %d new yield records\n", len(res.Results), appended)
			for _, f := range res.Failures {
				fmt.Fprintf(out, "  failed %s: %s\n", f.AssetID, f.Error)
			}
			printPersistWarning(out, res.PersistStatus)
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download a backup (json) or asset sheet (csv)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := do(cmd, http.MethodGet, "/api/v1/export?format="+url.QueryEscape(format), nil, "")
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if output == "" {
				_, err = io.Copy(cmd.OutOrStdout(), resp.Body)
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			defer f.Close()

			n, err := io.Copy(f, resp.Body)
			if err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes to %s\n", n, output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Export format: json or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")

	return cmd
}

func importCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import assets from a backup (json) or asset sheet (csv)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			if format == "" {
				format = strings.TrimPrefix(strings.ToLower(filepath.Ext(args[0])), ".")
			}
			contentType := "application/json"
			if format == "csv" {
				contentType = "text/csv"
			}

			var res dto.ImportResponse
			path := "/api/v1/import?format=" + url.QueryEscape(format)
			if err := doJSON(cmd, http.MethodPost, path, bytes.NewReader(data), contentType, &res); err != nil {
				return err
			}
			if jsonMode {
				return printJSON(cmd.OutOrStdout(), res)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d assets, skipped %d rows\n", res.Imported, len(res.Skipped))
			for _, s := range res.Skipped {
				fmt.Fprintf(out, "  row %d %s: %s\n", s.Row, s.Name, s.Reason)
			}
			if res.PersistFailures > 0 {
				fmt.Fprintf(out, "Warning: %d imported assets were not persisted\n", res.PersistFailures)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Import format: json or csv (default from file extension)")

	return cmd
}

// do sends a request and returns the response when the status is 2xx.
func do(cmd *cobra.Command, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(cmd.Context(), method, strings.TrimRight(baseURL, "/")+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		var apiErr dto.ErrorResponse
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Message != "" {
				return nil, fmt.Errorf("%s (status %d): %s", apiErr.Error, resp.StatusCode, apiErr.Message)
			}
			return nil, fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return nil, fmt.Errorf("request failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	return resp, nil
}

func doJSON(cmd *cobra.Command, method, path string, body io.Reader, contentType string, dst any) error {
	resp, err := do(cmd, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func printPersistWarning(w io.Writer, s dto.PersistStatus) {
	if !s.Persisted && s.PersistError != "" {
		fmt.Fprintf(w, "Warning: changes not persisted: %s\n", s.PersistError)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
