package cli

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"nidgate/pkg/domain"
)

type lookupRow struct {
	Prefix     string `json:"code_prefix"`
	Birthplace string `json:"birthplace"`
	Province   string `json:"province,omitempty"`
}

func newLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup PREFIX",
		Short: "Resolve a three-digit birthplace prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			prefix := args[0]
			if len(prefix) != domain.PrefixLength {
				return fmt.Errorf("prefix must be %d digits, got %q", domain.PrefixLength, prefix)
			}

			loc, ok := a.service.Dataset().Resolve(prefix)
			if !ok {
				return fmt.Errorf("birthplace code %q not found in the %s dataset", prefix, a.service.Source())
			}
			row := lookupRow{Prefix: prefix, Birthplace: loc.City, Province: loc.Province}

			if a.output == OutputJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(row)
			}
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Prefix", "Birthplace", "Province"})
			t.AppendRow(table.Row{row.Prefix, row.Birthplace, row.Province})
			t.Render()
			return nil
		},
	}
}
