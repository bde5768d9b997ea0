package solver

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

const envSolver = "OPTALCP_SOLVER"

// installablePackages is the small allow-list of binary names a known
// optalcp solver distribution might install onto PATH, tried in order
// before falling back to the bare name (spec.md §6.5 step 3).
var installablePackages = []string{"optalcp-solver", "optalcp-cp"}

var urlSchemes = []string{"http://", "https://", "ws://", "wss://"}

func isURL(s string) bool {
	for _, scheme := range urlSchemes {
		if strings.HasPrefix(s, scheme) {
			return true
		}
	}
	return false
}

// normalizeEndpoint passes URL-shaped strings through unchanged, adds
// the .exe suffix on Windows when missing, and leaves POSIX names as
// given (spec.md §6.5).
func normalizeEndpoint(s string) string {
	if isURL(s) {
		return s
	}
	if runtime.GOOS == "windows" && !strings.HasSuffix(strings.ToLower(s), ".exe") {
		return s + ".exe"
	}
	return s
}

// checkExecutable verifies a non-URL endpoint given as an explicit
// filesystem path is executable on POSIX (spec.md §6.5: "on POSIX
// executability is checked"). A bare name without a separator is not
// checked here; it is looked up on PATH when the process is spawned.
func checkExecutable(path string) error {
	if runtime.GOOS == "windows" || isURL(path) {
		return nil
	}
	if !strings.ContainsRune(path, os.PathSeparator) {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil // let the spawn itself surface a clearer error
	}
	if info.Mode()&0111 == 0 {
		return fmt.Errorf("solver: %s is not executable", path)
	}
	return nil
}

// Discover resolves the solver endpoint following spec.md §6.5's
// lookup order: an explicit path/URL (typically params.Parameters's
// SolverPath), then OPTALCP_SOLVER, then an allow-listed installable
// package binary on PATH, then the bare "optalcp" name.
func Discover(explicit *string) (string, error) {
	if explicit != nil && *explicit != "" {
		endpoint := normalizeEndpoint(*explicit)
		if err := checkExecutable(endpoint); err != nil {
			return "", err
		}
		return endpoint, nil
	}
	if env := os.Getenv(envSolver); env != "" {
		endpoint := normalizeEndpoint(env)
		if err := checkExecutable(endpoint); err != nil {
			return "", err
		}
		return endpoint, nil
	}
	for _, name := range installablePackages {
		if path, err := exec.LookPath(normalizeEndpoint(name)); err == nil {
			return path, nil
		}
	}
	return normalizeEndpoint("optalcp"), nil
}

// QueryVersion invokes the resolved solver endpoint for its reported
// version (spec.md §4.9: "--optalcpVersion invokes the external solver
// binary for its version"). Only the child-process form of an endpoint
// can be queried this way; a ws(s)://, http(s):// endpoint has no
// local binary to exec.
func QueryVersion(ctx context.Context, endpoint string) (string, error) {
	if isURL(endpoint) {
		return "", fmt.Errorf("solver: %s is a remote endpoint, not a local binary; cannot query its version directly", endpoint)
	}
	out, err := exec.CommandContext(ctx, endpoint, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("solver: querying %s for its version: %w", endpoint, err)
	}
	return strings.TrimSpace(string(out)), nil
}
