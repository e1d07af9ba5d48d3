//go:build integration || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedXMRPath holds the path to a shared xmr binary built once for all tests.
	sharedXMRPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getXMRBinary returns the path to the xmr binary, building it once if needed.
func getXMRBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "xmr-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		xmrPath := filepath.Join(tempDir, "xmr")
		buildCmd := exec.Command("go", "build", "-o", xmrPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build xmr: %v\n%s", err, out))
		}

		sharedXMRPath = xmrPath
	})

	return sharedXMRPath
}

// runXMR runs the xmr binary from dir and returns its combined output.
func runXMR(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getXMRBinary(), args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}
