package cli

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"nidgate/internal/birthplace/source"
	platformredis "nidgate/internal/platform/redis"
)

func newDatasetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Print the loaded birthplace dataset",
		Long: `Print the dataset as a table of prefixes, or with -o json in the same
document form served by GET /api/birthplace/all. Prefixes hidden by an
earlier duplicate are marked as shadowed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			dataset := a.service.Dataset()

			if a.output == OutputJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(dataset)
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Prefix", "Province", "City", "Note"})
			seen := make(map[string]bool)
			for _, e := range dataset.Entries() {
				note := ""
				if seen[e.Prefix] {
					note = "shadowed"
				}
				seen[e.Prefix] = true
				t.AppendRow(table.Row{e.Prefix, e.Province, e.City, note})
			}
			t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d entries", dataset.Len()), a.service.Source()})
			t.Render()
			return nil
		},
	}
	cmd.AddCommand(newDatasetPushCommand())
	return cmd
}

// newDatasetPushCommand copies the loaded dataset into Redis so servers can
// use dataset.source=redis.
func newDatasetPushCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Store the loaded dataset under the configured Redis key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			dataset := a.service.Dataset()
			if dataset.IsEmpty() {
				return fmt.Errorf("refusing to push an empty dataset")
			}
			if a.cfg.Redis.URL == "" {
				return fmt.Errorf("redis.url is not configured")
			}

			client, err := platformredis.New(cmd.Context(), a.cfg.Redis)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := source.Store(cmd.Context(), client, a.cfg.Dataset.RedisKey, dataset); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "stored %d entries at %s\n", dataset.Len(), a.cfg.Dataset.RedisKey)
			return nil
		},
	}
}
