package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagDeleteFilter []string

var deleteCmd = &cobra.Command{
	Use:   "delete <table>",
	Short: "Delete rows from a table and print the affected count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := parseFilter(flagDeleteFilter)
		if err != nil {
			return err
		}
		affected, err := database.DeleteAll(cmd.Context(), args[0], filter)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d rows\n", affected)
		return nil
	},
}

func init() {
	deleteCmd.Flags().StringArrayVar(&flagDeleteFilter, "filter", nil, "column=value equality filter (repeatable, ANDed)")
}
