package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dukaforge/sqlbridge/pkg/db"
	"github.com/dukaforge/sqlbridge/pkg/types"
)

var flagFilter []string

var queryCmd = &cobra.Command{
	Use:   "query <table> <column:tag>...",
	Short: "Read all rows of a table, one JSON object per row",
	Long: `Read all rows of a table. Each column argument pairs a column name
with the tag used to decode it, e.g. "id:i64" or "name:string". Tags:
null, string, i64, i32, i16, bool, f64, f32, binary, time, date, datetime.
Rows are printed in the order the backend returned them.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		table := args[0]
		columns, err := parseColumns(args[1:])
		if err != nil {
			return err
		}
		filter, err := parseFilter(flagFilter)
		if err != nil {
			return err
		}

		rows, err := database.QueryAll(cmd.Context(), table, columns, filter)
		if err != nil {
			return err
		}
		for _, row := range rows {
			line, err := json.Marshal(row)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(line))
		}
		return nil
	},
}

func init() {
	queryCmd.Flags().StringArrayVar(&flagFilter, "filter", nil, "column=value equality filter (repeatable, ANDed)")
}

// parseColumns converts "name:tag" arguments into typed columns.
func parseColumns(args []string) ([]types.Column, error) {
	columns := make([]types.Column, 0, len(args))
	for _, arg := range args {
		name, tagName, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, fmt.Errorf("column %q must be name:tag", arg)
		}
		tag, err := types.ParseValueTag(tagName)
		if err != nil {
			return nil, err
		}
		columns = append(columns, types.Column{Name: name, Type: tag})
	}
	return columns, nil
}

// parseFilter converts repeated column=value flags into a Filter. Values
// are compared as strings; the backend casts as needed.
func parseFilter(pairs []string) (db.Filter, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	filter := make(db.Filter, len(pairs))
	for _, pair := range pairs {
		col, val, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("filter %q must be column=value", pair)
		}
		filter[col] = val
	}
	return filter, nil
}
