package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/ads-client/internal/constants"
	"github.com/fivetwenty-io/ads-client/pkg/ads"
)

// NewRequestCommand creates the request command.
func NewRequestCommand() *cobra.Command {
	var (
		bodyFile string
		domain   string
		headers  []string
		all      bool
		limit    int
		include  bool
		columns  []string
	)

	cmd := &cobra.Command{
		Use:   "request METHOD PATH [KEY=VALUE...]",
		Short: "Send a signed API request",
		Long: `Send an arbitrary signed request and print the response body.

PATH may contain %{account_id}, filled from the selected account. With --all
the data collection is followed across every next_cursor page.`,
		Example: `  ads request GET /12/accounts/%{account_id}/campaigns count=5
  ads request GET /12/targeting_criteria/locations q=boston --all`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildManualRequest(args, bodyFile, domain, headers, cmd.InOrStdin())
			if err != nil {
				return err
			}

			client, release, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer release()

			ctx := commandContext(cmd)

			if all {
				items, err := collect(ads.NewRawCursor(ctx, client, req), limit)
				if err != nil {
					return err
				}

				return writeOutput(cmd.OutOrStdout(), items, columns, rawRows(items, columns))
			}

			resp, err := req.Perform(ctx, client)
			if err != nil {
				return err
			}

			if include {
				for _, header := range resp.Headers() {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", header.Name, header.Value)
				}
			}

			return writeBody(cmd.OutOrStdout(), resp.RawBody())
		},
	}

	cmd.Flags().StringVar(&bodyFile, "body", "", "file with the request body, or - for stdin")
	cmd.Flags().StringVar(&domain, "domain", "", "send the request to this base URL instead of the API")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "extra header as 'Name: value'")
	cmd.Flags().BoolVar(&all, "all", false, "follow next_cursor and print every item of the data collection")
	cmd.Flags().IntVar(&limit, "limit", 0, "with --all, maximum number of items (0 for all)")
	cmd.Flags().BoolVarP(&include, "include", "i", false, "print response headers to stderr")
	cmd.Flags().StringSliceVar(&columns, "columns", []string{"id", "name"}, "with --all, table columns")

	return cmd
}

func buildManualRequest(args []string, bodyFile, domain string, headers []string, stdin io.Reader) (*ads.Request, error) {
	method := strings.ToUpper(args[0])

	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return nil, fmt.Errorf("%w: %s", constants.ErrInvalidMethod, args[0])
	}

	params, err := parseParams(args[2:])
	if err != nil {
		return nil, err
	}

	opts := []ads.RequestOption{ads.WithParams(params)}

	if account := viper.GetString(keyAccount); account != "" {
		opts = append(opts, ads.WithPathParams(map[string]string{"account_id": account}))
	}

	if domain != "" {
		opts = append(opts, ads.WithDomain(strings.TrimSuffix(domain, "/")))
	}

	extra := map[string]string{}

	for _, header := range headers {
		name, value, ok := strings.Cut(header, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: header %q", constants.ErrInvalidParam, header)
		}

		extra[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	if bodyFile != "" {
		body, err := readBody(bodyFile, stdin)
		if err != nil {
			return nil, err
		}

		opts = append(opts, ads.WithBody(body))

		if _, ok := extra["Content-Type"]; !ok && json.Valid(body) {
			extra["Content-Type"] = "application/json"
		}
	}

	if len(extra) > 0 {
		opts = append(opts, ads.WithHeaders(extra))
	}

	req := ads.NewRequest(method, args[1], opts...)
	if err := req.Validate(); err != nil {
		if viper.GetString(keyAccount) == "" && strings.Contains(args[1], "%{account_id}") {
			return nil, constants.ErrNoAccountSelected
		}

		return nil, err
	}

	return req, nil
}

func readBody(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		body, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read body from stdin: %w", err)
		}

		return body, nil
	}

	// #nosec G304 -- the path is supplied by the user running the CLI
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read body file: %w", err)
	}

	return body, nil
}

// writeBody pretty-prints JSON payloads and copies anything else unchanged.
func writeBody(w io.Writer, raw []byte) error {
	var pretty bytes.Buffer

	if err := json.Indent(&pretty, raw, "", strings.Repeat(" ", constants.JSONIndentSize)); err != nil {
		_, err = w.Write(raw)

		return err
	}

	pretty.WriteByte('\n')
	_, err := pretty.WriteTo(w)

	return err
}

// rawRows renders decoded items for table output.
func rawRows(items []map[string]any, columns []string) [][]string {
	rows := make([][]string, 0, len(items))

	for _, item := range items {
		row := make([]string, len(columns))
		for i, column := range columns {
			value, ok := item[column]
			if !ok || value == nil {
				row[i] = constants.NotAvailable

				continue
			}

			row[i] = fmt.Sprint(value)
		}

		rows = append(rows, row)
	}

	return rows
}
