package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "techscout.toml")
	content := fmt.Sprintf(`[paths]
data_dir = %q
snapshot_path = %q
log_dir = %q
`, dir, filepath.Join(dir, "stacks.json"), filepath.Join(dir, "logs"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	output, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(output, "Wrote sample configuration") {
		t.Fatalf("unexpected output: %q", output)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[gemini]") {
		t.Fatalf("sample config missing gemini section:\n%s", data)
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if _, err := runCommand(t, "config", "init", "--path", target); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error without --overwrite")
	}
	if _, err := runCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigValidateDefaults(t *testing.T) {
	configPath := writeTestConfig(t)
	output, err := runCommand(t, "config", "validate", "--path", configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(output, "is valid") {
		t.Fatalf("unexpected output: %q", output)
	}
}

func TestRunRequiresGeminiKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	configPath := writeTestConfig(t)
	_, err := runCommand(t, "--config", configPath, "run")
	if err == nil || !strings.Contains(err.Error(), "gemini.api_key") {
		t.Fatalf("expected missing key error, got %v", err)
	}
}

func TestCheckFallsBackToCuratedList(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	configPath := writeTestConfig(t)
	output, err := runCommand(t, "--config", configPath, "check", "--max-techs", "5")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(output, "5 technologies would be processed") {
		t.Fatalf("unexpected output: %q", output)
	}
	if !strings.Contains(output, "React") {
		t.Fatalf("expected curated names in output: %q", output)
	}
}

func TestSnapshotListEmpty(t *testing.T) {
	configPath := writeTestConfig(t)
	output, err := runCommand(t, "--config", configPath, "snapshot", "list")
	if err != nil {
		t.Fatalf("snapshot list: %v", err)
	}
	if !strings.Contains(output, "catalog is empty") {
		t.Fatalf("unexpected output: %q", output)
	}
}

func TestRunsEmptyHistory(t *testing.T) {
	configPath := writeTestConfig(t)
	output, err := runCommand(t, "--config", configPath, "runs")
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if !strings.Contains(output, "No runs recorded yet.") {
		t.Fatalf("unexpected output: %q", output)
	}
}
