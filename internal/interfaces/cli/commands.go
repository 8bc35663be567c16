package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/oakline/ledger/internal/application/export"
	"github.com/oakline/ledger/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func newSummaryCmd(open Opener) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the business-wide figures",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loaded(cmd.Context(), open)
			if err != nil {
				return err
			}
			defer app.Close(cmd.Context())

			state := app.Store.State()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), ledger.CalculateDashboardSummary(state))
			}

			// the Summary sheet already holds the formatted figures
			sheet := export.BuildWorkbook(state, time.Now()).Sheets[0]
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, row := range sheet.Rows {
				fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print raw figures as JSON")
	return cmd
}

func newPreviewCmd() *cobra.Command {
	var (
		value  string
		plan   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Split a contract value across the payment stages",
		Example: `  ledgerctl preview --value 12500 --plan account_cp
  ledgerctl preview --value 8000 --plan full_account --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			total, err := decimal.NewFromString(value)
			if err != nil {
				return fmt.Errorf("invalid --value %q: %w", value, err)
			}
			breakdown, err := ledger.CalculateProjectBreakdown(total, ledger.PaymentPlan(plan))
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), breakdown)
			}

			p := message.NewPrinter(language.BritishEnglish)
			money := func(d decimal.Decimal) string {
				return p.Sprintf("£%.2f", d.Round(2).InexactFloat64())
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Stage\t%%\tAccount\tCash\tTotal\n")
			for _, s := range breakdown.Stages {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.Label, s.Percent.String(), money(s.Account), money(s.Cash), money(s.Total))
			}
			fmt.Fprintf(tw, "Total\t100\t%s\t%s\t%s\n", money(breakdown.AccountTotal), money(breakdown.CashTotal), money(breakdown.TotalValue))
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&value, "value", "", "Contract value")
	cmd.Flags().StringVar(&plan, "plan", string(ledger.PaymentPlanFullAccount), "Payment plan: full_account or account_cp")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the breakdown as JSON")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func newWorkbookCmd(open Opener) *cobra.Command {
	var (
		out     string
		publish bool
	)

	cmd := &cobra.Command{
		Use:   "workbook",
		Short: "Write the ledger workbook to a file or object storage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := loaded(ctx, open)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			state := app.Store.State()
			if publish {
				published, err := app.Workbook.Publish(ctx, state)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), published.URL)
				return nil
			}

			path := out
			if path == "" || isDir(path) {
				path = filepath.Join(out, app.Workbook.FileName(time.Now()))
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create workbook file: %w", err)
			}
			if _, err := app.Workbook.Write(f, state); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file or directory (default: dated file name in the current directory)")
	cmd.Flags().BoolVar(&publish, "publish", false, "Upload to the configured bucket and print a download URL")
	return cmd
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func newSyncCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Send the current snapshot to the export endpoint now",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := loaded(ctx, open)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			if err := app.Sync.SyncNow(ctx, app.Store.State()); err != nil {
				return err
			}
			status := app.Sync.Status()
			fmt.Fprintf(cmd.OutOrStdout(), "sent to %s (HTTP %d)\n", status.EndpointURL, status.LastStatusCode)
			return nil
		},
	}
}
