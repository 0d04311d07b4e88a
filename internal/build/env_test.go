package build

import (
	"strings"
	"testing"

	"aocrun/internal/config"
	"aocrun/internal/location"
	"aocrun/internal/workspace"
)

func TestEnvKeyHelpers(t *testing.T) {
	env := []string{"FOO=1", "BAR=2"}

	updated := setEnvKey(append([]string{}, env...), "FOO", "3")
	if updated[0] != "FOO=3" {
		t.Fatalf("setEnvKey updated[0] = %q, want %q", updated[0], "FOO=3")
	}

	added := setEnvKey(append([]string{}, env...), "BAZ", "9")
	if len(added) != 3 || added[2] != "BAZ=9" {
		t.Fatalf("setEnvKey did not add BAZ key: %v", added)
	}

	merged := MergeEnv(env, "BAR=7", "BAZ=9", "malformed")
	if len(merged) != 3 || merged[1] != "BAR=7" || merged[2] != "BAZ=9" {
		t.Fatalf("MergeEnv = %v, want [FOO=1 BAR=7 BAZ=9]", merged)
	}
	for _, entry := range merged {
		if entry == "BAR=2" || entry == "malformed" {
			t.Fatalf("MergeEnv kept %q: %v", entry, merged)
		}
	}
	if env[1] != "BAR=2" {
		t.Fatalf("MergeEnv modified its input: %v", env)
	}
}

func TestToolchainEnv(t *testing.T) {
	loc := location.Location{Year: 2025, Day: 6, Language: "c", DayDir: "/repo/2025/d6"}
	cfg := config.ExecutionConfig{Env: map[string]string{"LC_ALL": "C", "AOC_DAY": "override"}}

	got := ToolchainEnv(cfg, loc, workspace.Layout{Root: "/repo"})
	want := []string{
		"AOC_ROOT=/repo",
		"AOC_YEAR=2025",
		"AOC_DAY=override",
		"AOC_LANGUAGE=c",
		"LC_ALL=C",
	}
	if len(got) != len(want) {
		t.Fatalf("ToolchainEnv() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ToolchainEnv()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestToolchainEnv_DayLevel(t *testing.T) {
	loc := location.Location{Year: 2024, Day: 1, DayDir: "/repo/2024/d1"}
	got := ToolchainEnv(config.ExecutionConfig{}, loc, workspace.Layout{Root: "/repo"})
	for _, kv := range got {
		if strings.HasPrefix(kv, "AOC_LANGUAGE=") {
			t.Fatalf("day-level env should not carry AOC_LANGUAGE: %v", got)
		}
	}
}
