package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/ads-client/pkg/ads"
)

// NewTargetingCommand creates the targeting command.
func NewTargetingCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "targeting [KIND] [KEY=VALUE...]",
		Short: "Browse targeting catalogs",
		Long: `List the values of a targeting catalog such as devices or locations.

Without a kind the available catalogs are listed. Extra KEY=VALUE arguments are
passed as query parameters, e.g. 'ads targeting locations q=boston'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				kinds := ads.TargetingKinds()

				rows := make([][]string, 0, len(kinds))
				for _, name := range kinds {
					kind, _ := ads.LookupTargetingKind(name)
					rows = append(rows, []string{name, kind.Path})
				}

				return writeOutput(cmd.OutOrStdout(), kinds, []string{"kind", "path"}, rows)
			}

			kind, err := ads.LookupTargetingKind(args[0])
			if err != nil {
				return err
			}

			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}

			client, release, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer release()

			options, err := collect(ads.TargetingOptions(commandContext(cmd), client, kind, params), limit)
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", kind.Name, err)
			}

			columns := kind.Schema.Names()

			return writeOutput(cmd.OutOrStdout(), options, columns, objectRows(options, columns))
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of values to show (0 for all)")

	return cmd
}
