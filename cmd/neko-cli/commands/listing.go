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

func init() {
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(searchCmd)
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Lists the trending anime on the homepage.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := globals.Get(cmd.Context())

		entries, err := ctx.Client.GetRecent(cmd.Context())
		if err != nil {
			return fmt.Errorf("get recent anime: %w", err)
		}
		return printListing(ctx, entries)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Searches anime by title, the positional arguments are joined into one query.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := globals.Get(cmd.Context())

		entries, err := ctx.Client.Search(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		return printListing(ctx, entries)
	},
}

func printListing(ctx *globals.Value, entries []jkanime.ListingEntry) error {
	if ctx.Json {
		return utils.PrintJSON(entries)
	}

	t := utils.NewTable()
	t.AppendHeader(table.Row{"#", "Title", "Type", "Status", "Url"})
	for i, e := range entries {
		t.AppendRow(table.Row{i, e.Title, e.Type, e.Status, e.Url})
	}
	t.Render()
	return nil
}
