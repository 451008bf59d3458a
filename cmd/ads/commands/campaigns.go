package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/ads-client/pkg/ads"
)

var (
	campaignColumns = []string{"id", "name", "entity_status", "funding_instrument_id", "start_time", "end_time"}
	lineItemColumns = []string{"id", "name", "campaign_id", "objective", "product_type", "entity_status"}
)

// listFlags are the filters shared by resource list commands.
type listFlags struct {
	limit       int
	count       int
	ids         []string
	withDeleted bool
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.limit, "limit", 0, "maximum number of items to show (0 for all)")
	cmd.Flags().IntVar(&f.count, "count", 0, "page size requested from the API")
	cmd.Flags().StringSliceVar(&f.ids, "ids", nil, "restrict to these ids")
	cmd.Flags().BoolVar(&f.withDeleted, "with-deleted", false, "include deleted items")
}

func (f *listFlags) params(idsParam string) ads.Params {
	params := ads.Params{}
	if f.count > 0 {
		params["count"] = f.count
	}

	if len(f.ids) > 0 {
		params[idsParam] = f.ids
	}

	if f.withDeleted {
		params["with_deleted"] = true
	}

	return params
}

// resourceCommands wires list and get subcommands for one resource type.
type resourceCommands[T valueGetter] struct {
	use      string
	aliases  []string
	plural   string
	idsParam string
	columns  []string
	list     func(ctx context.Context, account *ads.Account, params ads.Params) *ads.Cursor[T]
	get      func(ctx context.Context, account *ads.Account, id string) (T, error)
	object   func(T) *ads.Object
}

func (r resourceCommands[T]) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:     r.use,
		Aliases: r.aliases,
		Short:   "Manage " + r.plural,
		Long:    fmt.Sprintf("List and inspect the %s of the selected account", r.plural),
	}

	cmd.AddCommand(r.listCommand())
	cmd.AddCommand(r.getCommand())

	return cmd
}

func (r resourceCommands[T]) listCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + r.plural,
		Long:  fmt.Sprintf("List the %s of the selected account", r.plural),
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

			items, err := collect(r.list(ctx, account, flags.params(r.idsParam)), flags.limit)
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", r.plural, err)
			}

			return writeOutput(cmd.OutOrStdout(), items, r.columns, objectRows(items, r.columns))
		},
	}

	flags.register(cmd)

	return cmd
}

func (r resourceCommands[T]) getCommand() *cobra.Command {
	singular := strings.TrimSuffix(r.plural, "s")

	return &cobra.Command{
		Use:   "get ID",
		Short: "Get " + singular + " details",
		Long:  fmt.Sprintf("Display every property of one %s", singular),
		Args:  cobra.ExactArgs(1),
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

			item, err := r.get(ctx, account, args[0])
			if err != nil {
				return fmt.Errorf("failed to get %s %s: %w", singular, args[0], err)
			}

			return writeOutput(cmd.OutOrStdout(), item, []string{"property", "value"}, propertyRows(r.object(item)))
		},
	}
}

// NewCampaignsCommand creates the campaigns command group.
func NewCampaignsCommand() *cobra.Command {
	return resourceCommands[*ads.Campaign]{
		use:      "campaigns",
		aliases:  []string{"campaign"},
		plural:   "campaigns",
		idsParam: "campaign_ids",
		columns:  campaignColumns,
		list: func(ctx context.Context, account *ads.Account, params ads.Params) *ads.Cursor[*ads.Campaign] {
			return account.Campaigns(ctx, params)
		},
		get: func(ctx context.Context, account *ads.Account, id string) (*ads.Campaign, error) {
			return account.Campaign(ctx, id)
		},
		object: func(c *ads.Campaign) *ads.Object { return &c.Object },
	}.command()
}

// NewLineItemsCommand creates the line-items command group.
func NewLineItemsCommand() *cobra.Command {
	return resourceCommands[*ads.LineItem]{
		use:      "line-items",
		aliases:  []string{"line-item", "li"},
		plural:   "line items",
		idsParam: "line_item_ids",
		columns:  lineItemColumns,
		list: func(ctx context.Context, account *ads.Account, params ads.Params) *ads.Cursor[*ads.LineItem] {
			return account.LineItems(ctx, params)
		},
		get: func(ctx context.Context, account *ads.Account, id string) (*ads.LineItem, error) {
			return account.LineItem(ctx, id)
		},
		object: func(l *ads.LineItem) *ads.Object { return &l.Object },
	}.command()
}
