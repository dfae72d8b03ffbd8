package commands

import (
	"fmt"

	"neko-backend/cmd/neko-cli/globals"
	"neko-backend/cmd/neko-cli/utils"
	"neko-backend/internal/scrapers/jkanime"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(streamsCmd)
}

var streamsCmd = &cobra.Command{
	Use:   "streams <episode url>",
	Short: "Resolves the stream urls of an episode.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := globals.Get(cmd.Context())

		streams, err := ctx.Client.GetEpisodeStreams(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get episode streams: %w", err)
		}
		return printStreams(ctx, streams)
	},
}

func printStreams(ctx *globals.Value, streams []jkanime.StreamLink) error {
	if ctx.Json {
		return utils.PrintJSON(streams)
	}

	t := utils.NewTable()
	t.AppendHeader(table.Row{"Player", "Src"})
	for _, s := range streams {
		t.AppendRow(table.Row{s.Index, s.Src})
	}
	t.Render()
	return nil
}
