package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/walshb/ncspot/internal/spotify/client"
)

var statusRecent int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current playback status",
	Long:  `Shows what is currently playing, where, and how far along it is.`,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().IntVarP(&statusRecent, "recent", "r", 0, "also show the N most recently played tracks")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	c, err := newSpotifyClient()
	if err != nil {
		return err
	}

	ctx := context.Background()
	state, err := c.GetPlaybackState(ctx)
	if err != nil {
		return err
	}

	if JSONOutput() {
		return outputStatusJSON(state)
	}

	outputStatusText(state)

	if statusRecent > 0 {
		if err := printRecentlyPlayed(ctx, c, statusRecent); err != nil {
			fmt.Fprintf(os.Stderr, "recently played unavailable: %v\n", err)
		}
	}
	return nil
}

func outputStatusJSON(state *client.PlaybackState) error {
	if state == nil || state.Item == nil {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"playing": false,
		})
	}
	output := map[string]interface{}{
		"playing":     state.IsPlaying,
		"track":       state.Item.Name,
		"artists":     artistNames(state.Item),
		"album":       state.Item.Album.Name,
		"uri":         state.Item.URI,
		"progress_ms": state.ProgressMS,
		"duration_ms": state.Item.DurationMS,
	}
	if state.Device.Name != "" {
		output["device"] = state.Device.Name
	}
	return json.NewEncoder(os.Stdout).Encode(output)
}

func outputStatusText(state *client.PlaybackState) {
	if state == nil || state.Item == nil {
		fmt.Println("No active playback")
		return
	}

	icon := StatusIcon(state.IsPlaying)
	artists := strings.Join(artistNames(state.Item), ", ")
	fmt.Printf("%s %s — %s\n", icon, artists, state.Item.Name)
	fmt.Printf("  album:  %s\n", state.Item.Album.Name)
	if state.Device.Name != "" {
		fmt.Printf("  device: %s (%s)\n", state.Device.Name, state.Device.Type)
	}

	progress := state.ProgressMS / 1000
	duration := state.Item.DurationMS / 1000
	bar := FormatProgress(state.ProgressMS, state.Item.DurationMS, 30)
	fmt.Printf("  %s / %s  %s\n", FormatDuration(progress), FormatDuration(duration), bar)
}

func printRecentlyPlayed(ctx context.Context, c *client.Client, limit int) error {
	recent, err := c.GetRecentlyPlayed(ctx, limit)
	if err != nil {
		return err
	}
	if len(recent.Items) == 0 {
		return nil
	}

	fmt.Println("\nRecently played:")
	for _, item := range recent.Items {
		when := item.PlayedAt
		if t, err := time.Parse(time.RFC3339, item.PlayedAt); err == nil {
			when = humanize.Time(t)
		}
		artists := strings.Join(artistNames(&item.Track), ", ")
		fmt.Printf("  %s — %s  (%s)\n", artists, item.Track.Name, when)
	}
	return nil
}

func artistNames(t *client.Track) []string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return names
}
