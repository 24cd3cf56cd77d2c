package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/walshb/ncspot/internal/config"
	"github.com/walshb/ncspot/internal/core"
	"github.com/walshb/ncspot/internal/events"
	"github.com/walshb/ncspot/internal/player"
	"github.com/walshb/ncspot/internal/spotify/auth"
	"github.com/walshb/ncspot/internal/spotify/remote"
	"github.com/walshb/ncspot/internal/spotify/session"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interactive playback worker",
	Long: `Starts the playback worker and reads commands from stdin.

Commands:
  load <uri> [position]   load a spotify: URI, optionally starting at position
  play                    resume playback
  pause                   pause playback
  stop                    stop playback
  seek <position>         seek, e.g. 1m30s or 45s
  volume <0-100>          set playback volume
  preload <uri>           hint the next item to the backend
  token                   fetch an access token
  quit                    shut down`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	c, err := newSpotifyClient()
	if err != nil {
		return err
	}

	sess := session.New(c)
	backend := remote.New(c, sess, remote.Config{
		DeviceID:      cfg.Spotify.Device,
		PollInterval:  time.Duration(cfg.Playback.PollInterval) * time.Millisecond,
		PreloadWindow: time.Duration(cfg.Playback.PreloadWindow) * time.Millisecond,
	})

	bus := events.NewManager()
	commands := make(chan player.Command, player.CommandBuffer)

	worker := player.New(bus, backend, backend, sess, commands, backend.Events())
	worker.SetRefreshInterval(time.Duration(cfg.Playback.RefreshInterval) * time.Millisecond)

	// Handle Ctrl+C gracefully
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		sess.Shutdown()
		cancel()
	}()

	go func() { _ = backend.Start(ctx) }()

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Run(ctx)
	}()

	// Apply the configured starting volume through the command queue
	// like any other caller would.
	startVolume := config.DefaultVolume
	if cfg.Playback.Volume != nil {
		startVolume = *cfg.Playback.Volume
	}
	commands <- player.SetVolume(percentToLevel(startVolume))

	go readCommands(commands, sess)

	for {
		select {
		case ev := <-bus.Player():
			printPlayerEvent(ev)

		case <-bus.Preload():
			// No queue in the CLI frontend; surface the hint so the
			// user can preload something themselves.
			fmt.Println("· nearing end of track, preload window open")

		case <-bus.Refresh():
			// Heartbeat for frontends that redraw; nothing to redraw
			// here.

		case <-workerDone:
			return nil
		}
	}
}

// readCommands parses stdin lines into worker commands. EOF shuts the
// session down.
func readCommands(commands chan<- player.Command, sess *session.Session) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "load":
			if len(fields) < 2 {
				fmt.Println("usage: load <uri> [position]")
				continue
			}
			position := time.Duration(0)
			if len(fields) > 2 {
				if d, err := parsePosition(fields[2]); err == nil {
					position = d
				}
			}
			commands <- player.Load(core.Track{URI: fields[1]}, true, position)

		case "play":
			commands <- player.Play()

		case "pause":
			commands <- player.Pause()

		case "stop":
			commands <- player.Stop()

		case "seek":
			if len(fields) < 2 {
				fmt.Println("usage: seek <position>")
				continue
			}
			d, err := parsePosition(fields[1])
			if err != nil {
				fmt.Printf("bad position %q\n", fields[1])
				continue
			}
			commands <- player.Seek(d)

		case "volume":
			if len(fields) < 2 {
				fmt.Println("usage: volume <0-100>")
				continue
			}
			percent, err := strconv.Atoi(fields[1])
			if err != nil || percent < 0 || percent > 100 {
				fmt.Printf("bad volume %q\n", fields[1])
				continue
			}
			commands <- player.SetVolume(percentToLevel(percent))

		case "preload":
			if len(fields) < 2 {
				fmt.Println("usage: preload <uri>")
				continue
			}
			commands <- player.Preload(core.Track{URI: fields[1]})

		case "token":
			reply := make(chan *auth.Token, 1)
			commands <- player.RequestToken(reply)
			go func() {
				token := <-reply
				if token == nil {
					fmt.Println("token fetch failed")
					return
				}
				fmt.Printf("token ok, expires %s\n", token.ExpiresAt.Format(time.RFC3339))
			}()

		case "quit":
			sess.Shutdown()
			return

		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}

	sess.Shutdown()
}

func printPlayerEvent(ev events.PlayerEvent) {
	switch ev.State {
	case events.StatePlaying:
		fmt.Printf("▶ playing (%s elapsed)\n", ev.Elapsed().Round(time.Second))
	case events.StatePaused:
		fmt.Printf("⏸ paused at %s\n", ev.Position.Round(time.Second))
	case events.StateStopped:
		fmt.Println("■ stopped")
	case events.StateFinished:
		fmt.Println("⏭ track finished")
	}
}

// parsePosition accepts either a Go duration ("1m30s") or whole seconds.
func parsePosition(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	secs, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}

func percentToLevel(percent int) uint16 {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return uint16(percent * 65535 / 100)
}
