package config

// Config is the root configuration structure.
type Config struct {
	Spotify  SpotifyConfig  `toml:"spotify"`
	Playback PlaybackConfig `toml:"playback"`
	Auth     AuthConfig     `toml:"auth"`
	Log      LogConfig      `toml:"log"`
}

// SpotifyConfig holds Spotify API settings.
type SpotifyConfig struct {
	ClientID    string `toml:"client_id"`
	RedirectURI string `toml:"redirect_uri"`
	Device      string `toml:"device"`
}

// PlaybackConfig holds playback worker settings.
type PlaybackConfig struct {
	// Volume is a pointer so an explicit 0 survives defaulting.
	Volume *int `toml:"volume"`

	// RefreshInterval is the worker heartbeat while audio is active,
	// in milliseconds.
	RefreshInterval int `toml:"refresh_interval"`

	// PollInterval is how often backend state is polled, in
	// milliseconds.
	PollInterval int `toml:"poll_interval"`

	// PreloadWindow is how close to the end of a track the next item
	// is preloaded, in milliseconds.
	PreloadWindow int `toml:"preload_window"`
}

// AuthConfig holds credential storage settings.
type AuthConfig struct {
	UseKeyring bool `toml:"use_keyring"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}
