package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"deadline_notification_bot/internal/app"
)

var recipientFlag string

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Print the current deadline digest without sending it",
	Long: `Print the current deadline digest and its counts.

Examples:
  deadlinectl digest
  deadlinectl digest --now 2027-01-15`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		now, err := resolveNow()
		if err != nil {
			return err
		}

		digest, err := svc.ComposeDigest(context.Background(), now)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, digest.Text)
		fmt.Fprintln(out)
		fmt.Fprintln(out, summaryLine(digest))
		return nil
	},
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Compose the digest and send it to one recipient",
	Long: `Compose the digest and make one delivery attempt. On failure the
gateway's reason is printed and the exit code is 1.

Examples:
  deadlinectl send --recipient -1001234567890`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		now, err := resolveNow()
		if err != nil {
			return err
		}

		digest, err := svc.SendDigest(context.Background(), recipientFlag, now)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "delivered digest %s to %s (%s)\n", digest.ID, recipientFlag, summaryLine(digest))
		return nil
	},
}

var diagnosticsCmd = &cobra.Command{
	Use:   "diagnostics",
	Short: "Print the Telegram gateway diagnostics report as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		gateway, err := newGateway()
		if err != nil {
			return err
		}

		report := gateway.Diagnose(context.Background())
		report.DefaultRecipients = cfg.DigestRecipients

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func summaryLine(d *app.Digest) string {
	agg := d.Aggregation
	parts := []string{
		fmt.Sprintf("subjects=%d", agg.Subjects),
		fmt.Sprintf("soon=%d", len(agg.Soon)),
		fmt.Sprintf("overdue=%d", len(agg.Overdue)),
		fmt.Sprintf("ok=%d", agg.OK),
		fmt.Sprintf("skipped=%d", agg.Skipped),
	}
	return strings.Join(parts, " ")
}

func init() {
	sendCmd.Flags().StringVarP(&recipientFlag, "recipient", "r", "", "Telegram chat ID to send to")
	if err := sendCmd.MarkFlagRequired("recipient"); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	rootCmd.AddCommand(digestCmd, sendCmd, diagnosticsCmd)
}
