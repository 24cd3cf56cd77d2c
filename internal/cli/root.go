// Package cli implements the ncspot command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/walshb/ncspot/internal/config"
	"github.com/walshb/ncspot/internal/errors"
	"github.com/walshb/ncspot/internal/log"
	"github.com/walshb/ncspot/internal/spotify/auth"
	"github.com/walshb/ncspot/internal/spotify/client"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ncspot",
	Short: "Control Spotify playback from the command line",
	Long:  `ncspot drives Spotify playback through a background worker, with commands for authentication, devices and playback status.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.ncspotrc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logCfg := cfg.Log
	if verbose && logCfg.Level != "debug" {
		logCfg.Level = "debug"
	}
	return log.Setup(logCfg)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errors.Format(err))
		os.Exit(1)
	}
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}

// newTokenStorage picks the configured credential store.
func newTokenStorage() (auth.Storage, error) {
	if cfg.Auth.UseKeyring {
		return auth.NewKeyringStorage(), nil
	}
	return auth.NewFileStorage("")
}

// newSpotifyClient builds an authenticated API client from config.
func newSpotifyClient() (*client.Client, error) {
	if cfg.Spotify.ClientID == "" {
		return nil, errors.WithSuggestion(errors.ErrNotAuthenticated,
			"Set spotify.client_id in ~/.ncspotrc or via NCSPOT_SPOTIFY_CLIENT_ID")
	}
	storage, err := newTokenStorage()
	if err != nil {
		return nil, err
	}
	c := client.New(cfg.Spotify.ClientID, storage)
	if err := c.LoadToken(); err != nil {
		return nil, err
	}
	if !c.HasToken() {
		return nil, errors.ErrNotAuthenticated
	}
	return c, nil
}
