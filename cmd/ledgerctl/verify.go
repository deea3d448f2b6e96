package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/SscSPs/docledger/internal/core/domain"
	portssvc "github.com/SscSPs/docledger/internal/core/ports/services"
	"github.com/SscSPs/docledger/internal/platform/logger"
	"github.com/spf13/cobra"
)

func newVerifyCmd(a *app) *cobra.Command {
	var companyID, accountID string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Recompute account balances from the ledger and report drift",
		Long: `verify recomputes every balance as initial balance plus the signed sum of
the account's transactions and compares it with the stored balance.
Nothing is corrected. The command fails when any account has drifted.`,
		Example: `  ledgerctl verify --company acme
  ledgerctl verify --account 0b6c3f8e-6f0e-4d43-9a3c-7f1f9d2a1e55`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (companyID == "") == (accountID == "") {
				return fmt.Errorf("exactly one of --company or --account is required")
			}
			log := logger.WithComponent("verify")

			return a.withServices(cmd.Context(), func(svc *portssvc.ServiceContainer) error {
				var checks []domain.BalanceCheck
				if accountID != "" {
					check, err := svc.Account.VerifyBalance(cmd.Context(), accountID)
					if err != nil {
						return err
					}
					checks = []domain.BalanceCheck{*check}
				} else {
					var err error
					if checks, err = svc.Account.VerifyAllBalances(cmd.Context(), companyID); err != nil {
						return err
					}
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ACCOUNT\tINITIAL\tTRANSACTIONS\tEXPECTED\tSTORED\tDRIFT")
				drifted := 0
				for _, c := range checks {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", c.AccountID,
						c.InitialBalance.String(), c.TransactionTotal.String(),
						c.ExpectedBalance.String(), c.CurrentBalance.String(), c.Drift.String())
					if !c.Consistent() {
						drifted++
					}
				}
				if err := w.Flush(); err != nil {
					return err
				}

				log.Info().Int("accounts", len(checks)).Int("drifted", drifted).Msg("Balance verification finished")
				if drifted > 0 {
					return fmt.Errorf("%d of %d accounts have drifted", drifted, len(checks))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "Verify every account of this company")
	cmd.Flags().StringVar(&accountID, "account", "", "Verify a single account")
	return cmd
}
