package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/walshb/ncspot/internal/config"
)

func TestSetup_Level(t *testing.T) {
	t.Cleanup(func() { logrus.SetLevel(logrus.InfoLevel); logrus.SetOutput(os.Stderr) })

	if err := Setup(config.LogConfig{Level: "debug"}); err != nil {
		t.Fatalf("Setup() error: %v", err)
	}
	if logrus.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", logrus.GetLevel())
	}

	// Unknown levels fall back to info rather than failing startup.
	if err := Setup(config.LogConfig{Level: "shouty"}); err != nil {
		t.Fatalf("Setup() error: %v", err)
	}
	if logrus.GetLevel() != logrus.InfoLevel {
		t.Errorf("level = %v, want info fallback", logrus.GetLevel())
	}
}

func TestSetup_File(t *testing.T) {
	t.Cleanup(func() { logrus.SetLevel(logrus.InfoLevel); logrus.SetOutput(os.Stderr) })

	path := filepath.Join(t.TempDir(), "ncspot.log")
	if err := Setup(config.LogConfig{Level: "info", File: path}); err != nil {
		t.Fatalf("Setup() error: %v", err)
	}
	logrus.Info("hello")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("log file is empty after writing an entry")
	}
}
