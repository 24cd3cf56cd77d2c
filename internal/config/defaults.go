package config

// DefaultVolume is the starting volume percentage when none is
// configured.
const DefaultVolume = 50

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	volume := DefaultVolume
	return &Config{
		Spotify: SpotifyConfig{
			RedirectURI: "http://127.0.0.1:8888/callback",
		},
		Playback: PlaybackConfig{
			Volume:          &volume,
			RefreshInterval: 400,
			PollInterval:    1000,
			PreloadWindow:   10000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Spotify
	if c.Spotify.RedirectURI == "" {
		c.Spotify.RedirectURI = d.Spotify.RedirectURI
	}

	// Playback
	if c.Playback.Volume == nil {
		c.Playback.Volume = d.Playback.Volume
	}
	if c.Playback.RefreshInterval == 0 {
		c.Playback.RefreshInterval = d.Playback.RefreshInterval
	}
	if c.Playback.PollInterval == 0 {
		c.Playback.PollInterval = d.Playback.PollInterval
	}
	if c.Playback.PreloadWindow == 0 {
		c.Playback.PreloadWindow = d.Playback.PreloadWindow
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
