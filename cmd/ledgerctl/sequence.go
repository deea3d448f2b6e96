package main

import (
	"fmt"

	"github.com/SscSPs/docledger/internal/core/domain"
	portssvc "github.com/SscSPs/docledger/internal/core/ports/services"
	"github.com/SscSPs/docledger/internal/platform/logger"
	"github.com/spf13/cobra"
)

type sequenceFlags struct {
	companyID string
	docType   string
	dateKey   string
}

func (f *sequenceFlags) bind(cmd *cobra.Command, withDate bool) {
	cmd.Flags().StringVar(&f.companyID, "company", "", "Company ID")
	cmd.Flags().StringVar(&f.docType, "type", "", "Document type (invoice, receipt, payment_voucher, statement_of_payment)")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("type")
	if withDate {
		cmd.Flags().StringVar(&f.dateKey, "date", "", "Date key, YYYYMMDD")
		_ = cmd.MarkFlagRequired("date")
	}
}

func (f *sequenceFlags) documentType() (domain.DocumentType, error) {
	return domain.ParseDocumentType(f.docType)
}

func newNextNumberCmd(a *app) *cobra.Command {
	var flags sequenceFlags
	cmd := &cobra.Command{
		Use:   "next-number",
		Short: "Issue the next document number",
		Long:  "next-number consumes a serial from today's counter. The number is not attached to any document.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			docType, err := flags.documentType()
			if err != nil {
				return err
			}
			return a.withServices(cmd.Context(), func(svc *portssvc.ServiceContainer) error {
				number, err := svc.Sequence.NextDocumentNumber(cmd.Context(), flags.companyID, docType)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), number)
				return nil
			})
		},
	}
	flags.bind(cmd, false)
	return cmd
}

func newSequenceCmd(a *app) *cobra.Command {
	var flags sequenceFlags
	cmd := &cobra.Command{
		Use:     "sequence",
		Short:   "Print a day's counter value",
		Example: "  ledgerctl sequence --company acme --type receipt --date 20250314",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			docType, err := flags.documentType()
			if err != nil {
				return err
			}
			return a.withServices(cmd.Context(), func(svc *portssvc.ServiceContainer) error {
				value, err := svc.Sequence.CurrentSequence(cmd.Context(), flags.companyID, docType, flags.dateKey)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			})
		},
	}
	flags.bind(cmd, true)
	return cmd
}

func newResetSequenceCmd(a *app) *cobra.Command {
	var flags sequenceFlags
	var value int64
	var confirm bool
	cmd := &cobra.Command{
		Use:   "reset-sequence",
		Short: "Set a day's counter",
		Long: `reset-sequence sets a day's counter so the next number issued is value+1.
Setting it below a serial already in use makes new numbers collide with
existing documents, so the command refuses to run without --yes.`,
		Example: "  ledgerctl reset-sequence --company acme --type invoice --date 20250314 --value 0 --yes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("refusing to reset without --yes")
			}
			docType, err := flags.documentType()
			if err != nil {
				return err
			}
			log := logger.WithComponent("reset-sequence")
			return a.withServices(cmd.Context(), func(svc *portssvc.ServiceContainer) error {
				if err := svc.Sequence.ResetSequence(cmd.Context(), flags.companyID, docType, flags.dateKey, value); err != nil {
					return err
				}
				log.Warn().
					Str("company_id", flags.companyID).
					Str("document_type", string(docType)).
					Str("date_key", flags.dateKey).
					Int64("value", value).
					Msg("Sequence reset")
				return nil
			})
		},
	}
	flags.bind(cmd, true)
	cmd.Flags().Int64Var(&value, "value", 0, "New counter value")
	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm the reset")
	return cmd
}
