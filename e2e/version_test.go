package e2e

import (
	"fmt"
	"strings"
	"testing"
)

func TestVersionFlagOutputsInjectedVersion(t *testing.T) {
	t.Parallel()

	injectedVersion := "e2e-smoke"
	ldflags := fmt.Sprintf("-X github.com/z77ma/aspnetcore/cmd.Version=%s -X github.com/z77ma/aspnetcore/cmd.GitCommit=abc123", injectedVersion)
	repoRoot, binaryPath := buildCLIBinary(t, ldflags)

	out, _, code := runCLI(t, binaryPath, repoRoot, "--version")
	if code != 0 {
		t.Fatalf("--version exited with %d", code)
	}
	if !strings.Contains(out, injectedVersion) {
		t.Fatalf("expected version output to contain %q, got: %q", injectedVersion, out)
	}

	out, _, code = runCLI(t, binaryPath, repoRoot, "version")
	if code != 0 {
		t.Fatalf("version exited with %d", code)
	}
	if !strings.Contains(out, "commit: abc123") {
		t.Fatalf("expected version command to print the commit, got: %q", out)
	}
}
