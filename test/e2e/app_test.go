package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	expect "github.com/Netflix/go-expect"
	"github.com/creack/pty"
)

// buildBinary builds the hackerstories binary for testing.
func buildBinary(t *testing.T) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "hackerstories")

	rootDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	// We are in test/e2e.
	rootDir = filepath.Join(rootDir, "..", "..")

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/hackerstories")
	cmd.Dir = rootDir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build failed: %v\n%s", err, out)
	}
	return binPath
}

func TestE2E_FakeSourceDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}
	binPath := buildBinary(t)

	homeDir := t.TempDir()
	dataDir := filepath.Join(homeDir, ".hackerstories")
	if err := writeFixtureConfig(dataDir); err != nil {
		t.Fatalf("failed to write fixture config: %v", err)
	}

	cmd := exec.Command(binPath, "--fake", "--data-dir", dataDir)
	cmd.Env = append(os.Environ(),
		"HOME="+homeDir,
		"HACKERSTORIES_SOURCE=",
	)

	ptmx, err := pty.Start(cmd)
	if err != nil {
		t.Fatalf("failed to start pty: %v", err)
	}
	defer func() {
		_ = ptmx.Close()
		_ = cmd.Process.Kill()
	}()

	if err := pty.Setsize(ptmx, &pty.Winsize{Cols: 120, Rows: 40}); err != nil {
		t.Fatalf("failed to set pty size: %v", err)
	}

	var outputBuf bytes.Buffer
	console, err := expect.NewConsole(
		expect.WithStdin(ptmx),
		expect.WithStdout(&outputBuf),
		expect.WithDefaultTimeout(5*time.Second),
	)
	if err != nil {
		t.Fatalf("failed to create console: %v", err)
	}
	defer console.Close()

	// 1. Seed stories from the fake source.
	t.Log("Waiting for seed stories...")
	if _, err := console.ExpectString("Jordan Walke"); err != nil {
		dumpLogs(t, dataDir)
		t.Fatalf("seed stories not shown: %v\nScreen:\n%s", err, outputBuf.String())
	}
	if _, err := console.ExpectString("with 5 comments"); err != nil {
		t.Fatalf("comment total not shown: %v\nScreen:\n%s", err, outputBuf.String())
	}

	// 2. Delete the story under the cursor (React, 3 comments).
	time.Sleep(300 * time.Millisecond)
	t.Log("Sending d...")
	if _, err := console.Send("d"); err != nil {
		t.Fatalf("failed to send d: %v", err)
	}
	if _, err := console.ExpectString("with 2 comments"); err != nil {
		dumpLogs(t, dataDir)
		t.Fatalf("delete not reflected: %v\nScreen:\n%s", err, outputBuf.String())
	}

	// 3. Quit.
	time.Sleep(300 * time.Millisecond)
	t.Log("Sending q...")
	if _, err := console.Send("q"); err != nil {
		t.Fatalf("failed to send q: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("process exited with error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Error("process did not exit after q")
	}

	// Preferences are persisted in the data directory.
	if _, err := os.Stat(filepath.Join(dataDir, "hackerstories.db")); err != nil {
		t.Errorf("preferences database missing: %v", err)
	}
}

func TestE2E_Version(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}
	binPath := buildBinary(t)

	out, err := exec.Command(binPath, "version").CombinedOutput()
	if err != nil {
		t.Fatalf("version failed: %v\n%s", err, out)
	}
	if len(bytes.TrimSpace(out)) == 0 {
		t.Error("version printed nothing")
	}
}
