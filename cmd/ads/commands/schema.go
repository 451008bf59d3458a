package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/ads-client/internal/constants"
	"github.com/fivetwenty-io/ads-client/pkg/ads"
)

// PropertyInfo describes one declared property for display.
type PropertyInfo struct {
	Name     string `json:"name"      yaml:"name"`
	Kind     string `json:"kind"      yaml:"kind"`
	ReadOnly bool   `json:"read_only" yaml:"read_only"`
}

// SchemaInfo describes one registered resource schema for display.
type SchemaInfo struct {
	Name       string         `json:"name"                 yaml:"name"`
	Properties []PropertyInfo `json:"properties,omitempty" yaml:"properties,omitempty"`
}

func describeSchema(schema *ads.Schema) SchemaInfo {
	info := SchemaInfo{Name: schema.Name()}

	for _, prop := range schema.Properties() {
		info.Properties = append(info.Properties, PropertyInfo{
			Name:     prop.Name,
			Kind:     prop.Kind.String(),
			ReadOnly: prop.ReadOnly,
		})
	}

	return info
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [RESOURCE]",
		Short: "Show resource property declarations",
		Long:  "List the registered resources, or the declared properties of one resource",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				schemas := ads.Schemas()

				infos := make([]SchemaInfo, 0, len(schemas))
				rows := make([][]string, 0, len(schemas))

				for _, schema := range schemas {
					info := describeSchema(schema)
					infos = append(infos, info)
					rows = append(rows, []string{info.Name, strconv.Itoa(len(info.Properties)), strconv.Itoa(len(schema.Writable()))})
				}

				return writeOutput(cmd.OutOrStdout(), infos, []string{"resource", "properties", "writable"}, rows)
			}

			schema, ok := ads.LookupSchema(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", constants.ErrUnknownResource, args[0])
			}

			info := describeSchema(schema)

			rows := make([][]string, 0, len(info.Properties))
			for _, prop := range info.Properties {
				rows = append(rows, []string{prop.Name, prop.Kind, strconv.FormatBool(prop.ReadOnly)})
			}

			return writeOutput(cmd.OutOrStdout(), info, []string{"property", "kind", "read_only"}, rows)
		},
	}
}
