package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/ads-client/pkg/ads"
)

var accountColumns = []string{"id", "name", "timezone", "approval_status", "business_name"}

// NewAccountsCommand creates the accounts command group.
func NewAccountsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account"},
		Short:   "Manage advertising accounts",
		Long:    "List and inspect the advertising accounts the credentials can access",
	}

	cmd.AddCommand(newAccountsListCommand())
	cmd.AddCommand(newAccountsGetCommand())
	cmd.AddCommand(newAccountsFeaturesCommand())

	return cmd
}

func newAccountsListCommand() *cobra.Command {
	var (
		limit       int
		withDeleted bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Long:  "List the advertising accounts the credentials can access",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, release, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer release()

			params := ads.Params{}
			if withDeleted {
				params["with_deleted"] = true
			}

			accounts, err := collect(client.Accounts(commandContext(cmd), params), limit)
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}

			return writeOutput(cmd.OutOrStdout(), accounts, accountColumns, objectRows(accounts, accountColumns))
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of accounts to show (0 for all)")
	cmd.Flags().BoolVar(&withDeleted, "with-deleted", false, "include deleted accounts")

	return cmd
}

func newAccountsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get [ACCOUNT_ID]",
		Short: "Get account details",
		Long:  "Display every property of one account; defaults to the selected account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				viper.Set(keyAccount, args[0])
			}

			client, release, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer release()

			account, err := currentAccount(commandContext(cmd), client)
			if err != nil {
				return err
			}

			return writeOutput(cmd.OutOrStdout(), account, []string{"property", "value"}, propertyRows(&account.Object))
		},
	}
}

func newAccountsFeaturesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "features [FEATURE_KEY...]",
		Short: "List account features",
		Long:  "List the features enabled for the selected account, optionally restricted to the given keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, release, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer release()

			ctx := commandContext(cmd)

			account, err := currentAccount(ctx, client)
			if err != nil {
				return err
			}

			features, err := account.Features(ctx, args...)
			if err != nil {
				return fmt.Errorf("failed to get features: %w", err)
			}

			rows := make([][]string, 0, len(features))
			for _, feature := range features {
				rows = append(rows, []string{feature})
			}

			return writeOutput(cmd.OutOrStdout(), features, []string{"feature"}, rows)
		},
	}
}
