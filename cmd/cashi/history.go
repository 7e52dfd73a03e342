package main

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Xausdorf/cashi/internal/domain/payment"
)

func historyCmd(logger *slog.Logger) *cobra.Command {
	var (
		watch  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show transaction history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if !watch {
				records, err := a.History.List(cmd.Context())
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), records, asJSON)
			}

			feed, err := a.History.Watch(cmd.Context())
			if err != nil {
				return err
			}
			defer feed.Close()

			for records := range feed.Updates() {
				if err := render(cmd.OutOrStdout(), records, asJSON); err != nil {
					return err
				}
			}
			return feed.Err()
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep printing the history as it changes")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")

	return cmd
}

func render(w io.Writer, records []payment.Record, asJSON bool) error {
	if asJSON {
		return outputJSON(w, records)
	}
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No transactions yet")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIMESTAMP\tTRANSACTION\tRECIPIENT\tAMOUNT\tSTATUS")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f %s\t%s\n", r.Timestamp, r.TransactionID, r.RecipientEmail, r.Amount, r.Currency, r.Status)
	}
	fmt.Fprintln(tw)
	return tw.Flush()
}
