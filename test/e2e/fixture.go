package e2e

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abelbrown/hackerstories/internal/config"
)

// writeFixtureConfig writes a config for the fake source with short delays
// so screens settle quickly.
func writeFixtureConfig(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}
	cfg := config.DefaultConfig()
	cfg.Source = config.SourceFake
	cfg.Fake.FetchDelay = 50 * time.Millisecond
	cfg.Fake.MutateDelay = 50 * time.Millisecond
	cfg.UI.ErrorClearDelay = 500 * time.Millisecond
	cfg.Log.Level = "debug"
	return cfg.Save(config.Path(dataDir))
}

// dumpLogs writes the day's log file to the test output.
func dumpLogs(t *testing.T, dataDir string) {
	t.Helper()
	matches, _ := filepath.Glob(filepath.Join(dataDir, "logs", "hackerstories-*.log"))
	for _, m := range matches {
		if logs, err := os.ReadFile(m); err == nil {
			t.Logf("%s:\n%s", filepath.Base(m), logs)
		}
	}
}
