package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func readLogs(t *testing.T, dir string, category Category) string {
	t.Helper()
	date := time.Now().Format("2006-01-02")
	data, err := os.ReadFile(filepath.Join(dir, date+"_"+string(category)+".log"))
	if err != nil {
		t.Fatalf("read %s log: %v", category, err)
	}
	return string(data)
}

func TestAllCategoriesLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	t.Cleanup(CloseAll)

	if err := Initialize(dir, Options{DebugMode: true, Level: "debug"}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !IsDebugMode() {
		t.Fatal("expected debug mode to be enabled")
	}

	categories := []Category{
		CategoryBoot, CategoryLocation, CategoryDeps,
		CategoryBuild, CategoryAdapter, CategoryTactile,
	}
	for _, cat := range categories {
		Get(cat).Info("hello from %s", cat)
	}
	CloseAll()

	for _, cat := range categories {
		if got := readLogs(t, dir, cat); !strings.Contains(got, "hello from "+string(cat)) {
			t.Errorf("category %s log missing message, got: %q", cat, got)
		}
	}
}

func TestDebugModeOffIsSilent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	t.Cleanup(CloseAll)

	if err := Initialize(dir, Options{DebugMode: false}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	Build("should not be written")

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("logs directory should not exist with debug mode off, stat err=%v", err)
	}
}

func TestCategoryFilter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	t.Cleanup(CloseAll)

	opts := Options{
		DebugMode:  true,
		Level:      "info",
		Categories: map[string]bool{"tactile": false},
	}
	if err := Initialize(dir, opts); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if IsCategoryEnabled(CategoryTactile) {
		t.Error("tactile should be disabled")
	}
	if !IsCategoryEnabled(CategoryBuild) {
		t.Error("unlisted categories default to enabled")
	}

	Tactile("dropped")
	date := time.Now().Format("2006-01-02")
	if _, err := os.Stat(filepath.Join(dir, date+"_tactile.log")); !os.IsNotExist(err) {
		t.Errorf("disabled category created a log file")
	}
}

func TestLevelFiltering(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	t.Cleanup(CloseAll)

	if err := Initialize(dir, Options{DebugMode: true, Level: "warn"}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	BuildDebug("debug line")
	Build("info line")
	BuildWarn("warn line")
	CloseAll()

	got := readLogs(t, dir, CategoryBuild)
	if strings.Contains(got, "debug line") || strings.Contains(got, "info line") {
		t.Errorf("lines below warn were written: %q", got)
	}
	if !strings.Contains(got, "warn line") {
		t.Errorf("warn line missing: %q", got)
	}
}

func TestJSONFormat(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	t.Cleanup(CloseAll)

	if err := Initialize(dir, Options{DebugMode: true, Level: "info", JSONFormat: true}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	Get(CategoryDeps).With("path", "aocdeps.yml").Info("loaded %d categories", 2)
	CloseAll()

	got := readLogs(t, dir, CategoryDeps)
	for _, want := range []string{`"msg":"loaded 2 categories"`, `"path":"aocdeps.yml"`, `"logger":"deps"`} {
		if !strings.Contains(got, want) {
			t.Errorf("JSON log missing %s: %q", want, got)
		}
	}
}

func TestInitializeRequiresDir(t *testing.T) {
	if err := Initialize("", Options{}); err == nil {
		t.Fatal("expected error for empty logs directory")
	}
}

func TestTimer(t *testing.T) {
	timer := StartTimer(CategoryBuild, "noop")
	if d := timer.Stop(); d < 0 {
		t.Fatalf("negative duration %v", d)
	}
}
