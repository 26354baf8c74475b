package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestResolveLogFilePathFallsBackToWorkdir(t *testing.T) {
	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWD) })
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	got, err := resolveLogFilePath(Options{})
	if err != nil {
		t.Fatalf("resolve path failed: %v", err)
	}
	wantDir, _ := filepath.EvalSymlinks(filepath.Join(tmpDir, defaultLogDirName))
	gotDir, _ := filepath.EvalSymlinks(filepath.Dir(got))
	if gotDir != wantDir {
		t.Fatalf("log dir want %s got %s", wantDir, gotDir)
	}
	if filepath.Base(got) != defaultLogFilename {
		t.Fatalf("log filename want %s got %s", defaultLogFilename, filepath.Base(got))
	}
	if _, err := os.Stat(got); err != nil {
		t.Fatalf("log file should be pre-created: %v", err)
	}
}

func TestOptionsNormalized(t *testing.T) {
	opts := Options{Filename: "  ", MaxSizeMB: -1, MaxBackups: 3}.normalized()
	if opts.Filename != defaultLogFilename || opts.MaxSizeMB != 100 || opts.MaxBackups != 3 || opts.MaxAgeDays != 30 {
		t.Fatalf("unexpected normalized options: %+v", opts)
	}
}

func TestReleaseModeWritesJSONWithServiceField(t *testing.T) {
	dir := t.TempDir()
	log := New("release", Options{Dir: dir, Filename: "release.log"})
	log.Sugar().Infow("cart_item_added", "variant_id", 7)
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(dir, "release.log"))
	if err != nil {
		t.Fatalf("read log failed: %v", err)
	}
	text := string(content)
	for _, want := range []string{`"message":"cart_item_added"`, `"variant_id":7`, `"service":"nilecart"`} {
		if !strings.Contains(text, want) {
			t.Fatalf("log line missing %s: %s", want, text)
		}
	}
}

func TestDebugModeSkipsLogFile(t *testing.T) {
	dir := t.TempDir()
	log := New("debug", Options{Dir: dir, Filename: "debug.log"})
	log.Info("checkout_started")
	_ = log.Sync()

	if _, err := os.Stat(filepath.Join(dir, "debug.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode must not create a log file")
	}
}

func TestResolveLevel(t *testing.T) {
	cases := []struct {
		raw   string
		debug bool
		want  zap.AtomicLevel
	}{
		{"", true, zap.NewAtomicLevelAt(zap.DebugLevel)},
		{"", false, zap.NewAtomicLevelAt(zap.InfoLevel)},
		{"warn", true, zap.NewAtomicLevelAt(zap.WarnLevel)},
		{" ERROR ", false, zap.NewAtomicLevelAt(zap.ErrorLevel)},
		{"loud", false, zap.NewAtomicLevelAt(zap.InfoLevel)},
	}
	for _, tc := range cases {
		if got := resolveLevel(tc.raw, tc.debug).Level(); got != tc.want.Level() {
			t.Fatalf("resolveLevel(%q, %v) want %s got %s", tc.raw, tc.debug, tc.want.Level(), got)
		}
	}
}

func TestZWithoutInitFallsBackToStdout(t *testing.T) {
	previous := L
	L = nil
	t.Cleanup(func() { L = previous })
	if Z() == nil || Z() != Z() {
		t.Fatalf("fallback logger should be cached and non-nil")
	}
}
