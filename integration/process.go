//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// buildStore compiles cmd/store once per test into a temp dir.
func buildStore(t *testing.T, ctx context.Context) string {
	t.Helper()

	bin := filepath.Join(t.TempDir(), "store")
	cmd := exec.CommandContext(ctx, "go", "build", "-o", bin, "../cmd/store")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("go build ./cmd/store failed: %v\n%s", err, string(out))
	}
	return bin
}

// runStore starts one store process in dir, feeds it the given input lines and
// returns its stdout and exit code once stdin is drained.
func runStore(t *testing.T, ctx context.Context, bin, dir string, env []string, lines ...string) (string, int) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdin = strings.NewReader(strings.Join(lines, "\n") + "\n")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return stdout.String(), 0
	case errors.As(err, &exitErr):
		return stdout.String(), exitErr.ExitCode()
	default:
		t.Fatalf("run store: %v\nstderr:\n%s", err, stderr.String())
		return "", -1
	}
}
