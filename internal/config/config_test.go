package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Playback.RefreshInterval != 400 {
		t.Errorf("RefreshInterval = %d, want 400", cfg.Playback.RefreshInterval)
	}
	if cfg.Playback.Volume == nil || *cfg.Playback.Volume != 50 {
		t.Errorf("Volume = %v, want 50", cfg.Playback.Volume)
	}
	if cfg.Spotify.RedirectURI == "" {
		t.Error("RedirectURI default is empty")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	if cfg.Playback.PollInterval != 1000 {
		t.Errorf("PollInterval = %d, want 1000", cfg.Playback.PollInterval)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Level = %q, want info", cfg.Log.Level)
	}

	cfg = &Config{Playback: PlaybackConfig{PollInterval: 250}}
	cfg.ApplyDefaults()
	if cfg.Playback.PollInterval != 250 {
		t.Errorf("PollInterval = %d, want explicit 250 preserved", cfg.Playback.PollInterval)
	}
}

func TestApplyDefaults_ExplicitZeroVolume(t *testing.T) {
	zero := 0
	cfg := &Config{Playback: PlaybackConfig{Volume: &zero}}
	cfg.ApplyDefaults()
	if cfg.Playback.Volume == nil || *cfg.Playback.Volume != 0 {
		t.Errorf("Volume = %v, want explicit 0 preserved", cfg.Playback.Volume)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("volume 0 should validate: %v", err)
	}
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
[spotify]
client_id = "abc123"
device = "kitchen"

[playback]
volume = 80
preload_window = 15000

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.Spotify.ClientID != "abc123" {
		t.Errorf("ClientID = %q, want abc123", cfg.Spotify.ClientID)
	}
	if cfg.Spotify.Device != "kitchen" {
		t.Errorf("Device = %q, want kitchen", cfg.Spotify.Device)
	}
	if cfg.Playback.Volume == nil || *cfg.Playback.Volume != 80 {
		t.Errorf("Volume = %v, want 80", cfg.Playback.Volume)
	}
	if cfg.Playback.PreloadWindow != 15000 {
		t.Errorf("PreloadWindow = %d, want 15000", cfg.Playback.PreloadWindow)
	}
	// Unset keys still get defaults.
	if cfg.Playback.RefreshInterval != 400 {
		t.Errorf("RefreshInterval = %d, want default 400", cfg.Playback.RefreshInterval)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Log.Level)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NCSPOT_SPOTIFY_CLIENT_ID", "from-env")
	t.Setenv("NCSPOT_PLAYBACK_VOLUME", "75")
	t.Setenv("NCSPOT_AUTH_USE_KEYRING", "true")
	t.Setenv("NCSPOT_LOG_LEVEL", "warn")

	cfg := &Config{}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	if cfg.Spotify.ClientID != "from-env" {
		t.Errorf("ClientID = %q, want from-env", cfg.Spotify.ClientID)
	}
	if cfg.Playback.Volume == nil || *cfg.Playback.Volume != 75 {
		t.Errorf("Volume = %v, want 75", cfg.Playback.Volume)
	}
	if !cfg.Auth.UseKeyring {
		t.Error("UseKeyring = false, want true")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"bad volume", func(c *Config) { bad := 150; c.Playback.Volume = &bad }, true},
		{"negative poll interval", func(c *Config) { c.Playback.PollInterval = -1 }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"bad redirect uri", func(c *Config) { c.Spotify.RedirectURI = "://bad" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
