package commands

import (
	"fmt"
	"strings"

	"neko-backend/cmd/neko-cli/globals"
	"neko-backend/cmd/neko-cli/utils"
	"neko-backend/internal/scrapers/jkanime"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var showEpisodes bool

func init() {
	detailsCmd.Flags().BoolVar(&showEpisodes, "episodes", false, "Also list every episode url.")
	rootCmd.AddCommand(detailsCmd)
}

var detailsCmd = &cobra.Command{
	Use:   "details <anime url> [--episodes]",
	Short: "Shows the details of an anime page.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := globals.Get(cmd.Context())

		details, err := ctx.Client.GetDetails(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get details: %w", err)
		}

		if ctx.Json {
			return utils.PrintJSON(details)
		}

		t := utils.NewTable()
		t.AppendRows([]table.Row{
			{"Title", details.Title},
			{"Type", details.Type},
			{"Status", details.Status},
			{"Season", details.Season.Name},
			{"Genres", linkNames(details.Genres)},
			{"Studios", linkNames(details.Studios)},
			{"Episodes", len(details.Episodes)},
			{"Synopsis", details.Synopsis},
		})
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 2, WidthMax: 80},
		})
		t.Render()

		if !showEpisodes {
			return nil
		}
		episodes := utils.NewTable()
		episodes.AppendHeader(table.Row{"Name", "Url"})
		for _, ep := range details.Episodes {
			episodes.AppendRow(table.Row{ep.Name, ep.Url})
		}
		episodes.Render()
		return nil
	},
}

func linkNames(links []jkanime.Link) string {
	names := make([]string, len(links))
	for i, l := range links {
		names[i] = l.Name
	}
	return strings.Join(names, ", ")
}
