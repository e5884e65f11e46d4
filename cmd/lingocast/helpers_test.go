package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliEnv struct {
	baseDir    string
	configPath string
}

type cliOptions struct {
	cdn        string
	api        string
	localCache bool
	frameMS    int
	ntfy       string
	extra      string
}

func setupCLIEnv(t *testing.T, opts cliOptions) *cliEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("LINGOCAST_CDN_BASE_URL", "")
	t.Setenv("LINGOCAST_API_BASE_URL", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	tick := 10
	if opts.frameMS > 0 {
		tick = 20
	}
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[transcripts]
cdn_base_url = %q
api_base_url = %q
local_cache = %t

[playback]
tick_interval_ms = %d
frame_interval_ms = %d

[notifications]
ntfy_topic = %q

[logging]
level = "error"
%s`,
		filepath.Join(base, "data"),
		filepath.Join(base, "logs"),
		opts.cdn,
		opts.api,
		opts.localCache,
		tick,
		opts.frameMS,
		opts.ntfy,
		opts.extra,
	)
	configPath := filepath.Join(base, "config.toml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliEnv{baseDir: base, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}
