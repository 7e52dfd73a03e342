package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/Xausdorf/cashi/internal/domain/payment"
	"github.com/Xausdorf/cashi/internal/domain/validator"
	"github.com/Xausdorf/cashi/internal/usecase/submit"
)

func payCmd(logger *slog.Logger) *cobra.Command {
	var (
		form   submit.Form
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Submit a payment",
		Long: `Validate and submit a payment, then record it in the transaction history.

Examples:
  cashi pay --email alice@example.com --amount 12.5 --currency USD
  cashi pay -e bob@example.com -a 20 -c EUR --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Submit.WithObserver(func(s submit.State) {
				logger.Debug("submission state", "state", s.String())
			}).Execute(cmd.Context(), form)
			if err != nil {
				return describe(err)
			}

			if asJSON {
				return outputJSON(cmd.OutOrStdout(), res.Payment)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.Message)
			fmt.Fprintf(out, "Transaction: %s\n", res.Payment.TransactionID)
			fmt.Fprintf(out, "Recipient:   %s\n", res.Payment.RecipientEmail)
			fmt.Fprintf(out, "Amount:      %.2f %s\n", res.Payment.Amount, res.Payment.Currency)
			fmt.Fprintf(out, "Status:      %s\n", res.Payment.Status)
			fmt.Fprintf(out, "Timestamp:   %s\n", res.Payment.Timestamp)
			return nil
		},
	}

	cmd.Flags().StringVarP(&form.RecipientEmail, "email", "e", "", "recipient email")
	cmd.Flags().StringVarP(&form.Amount, "amount", "a", "", "amount to send")
	cmd.Flags().StringVarP(&form.Currency, "currency", "c", "", "currency (USD, EUR)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")

	return cmd
}

// describe turns a submission error into the message shown to the user.
func describe(err error) error {
	var vErr *validator.ValidationError
	if errors.As(err, &vErr) {
		return fmt.Errorf("%s: %s", vErr.Field, vErr.Message)
	}
	var pErr *payment.Error
	if errors.As(err, &pErr) {
		return errors.New(pErr.Message)
	}
	return err
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
