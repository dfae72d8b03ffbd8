package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"neko-backend/cmd/neko-cli/globals"
	"neko-backend/internal/scrapers/jkanime"
	"neko-backend/pkg/textutil"

	"github.com/spf13/cobra"
)

const report_watch = "watch"

var watchEpisode int

func init() {
	watchCmd.Flags().IntVarP(&watchEpisode, "episode", "e", 1, "The episode number to resolve, starting at 1.")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch <query...> [--episode <n>]",
	Short: "Searches for an anime and resolves the streams of one of its episodes.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := globals.Get(cmd.Context())
		query := strings.Join(args, " ")

		entries, err := ctx.Client.Search(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		anime, ok := bestMatch(query, entries)
		if !ok {
			return fmt.Errorf("no anime found for %q", query)
		}
		slog.Info("picked anime", "title", anime.Title, "url", anime.Url)

		details, err := ctx.Client.GetDetails(cmd.Context(), anime.Url)
		if err != nil {
			return fmt.Errorf("get details: %w", err)
		}
		episode, err := pickEpisode(details, watchEpisode)
		if err != nil {
			ctx.Tel.ReportWarning(report_watch, err, anime.Url)
			return err
		}

		streams, err := ctx.Client.GetEpisodeStreams(cmd.Context(), episode.Url)
		if err != nil {
			return fmt.Errorf("get episode streams: %w", err)
		}
		if len(streams) == 0 {
			ctx.Tel.ReportWarning(report_watch, "no streams resolved", episode.Url)
		}
		return printStreams(ctx, streams)
	},
}

// bestMatch returns the search result whose title is closest to the query.
func bestMatch(query string, entries []jkanime.ListingEntry) (jkanime.ListingEntry, bool) {
	if len(entries) == 0 {
		return jkanime.ListingEntry{}, false
	}
	titles := make([]string, len(entries))
	for i, e := range entries {
		titles[i] = e.Title
	}
	ranked := textutil.RankByTitle(query, titles)
	return entries[ranked[0].Index], true
}

// pickEpisode returns the n-th episode, counting from 1.
func pickEpisode(details jkanime.AnimeDetails, n int) (jkanime.EpisodeRef, error) {
	if n < 1 || n > len(details.Episodes) {
		return jkanime.EpisodeRef{}, fmt.Errorf(
			"episode %d out of range, %q has %d episodes",
			n, details.Title, len(details.Episodes),
		)
	}
	return details.Episodes[n-1], nil
}
