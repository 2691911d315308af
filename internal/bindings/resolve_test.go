package bindings

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestLibraryNameMatchesPlatform(t *testing.T) {
	name := libraryName()
	switch runtime.GOOS {
	case "darwin":
		if name != "libdocstone_ffi.dylib" {
			t.Fatalf("library name = %q", name)
		}
	case "windows":
		if name != "docstone_ffi.dll" {
			t.Fatalf("library name = %q", name)
		}
	default:
		if name != "libdocstone_ffi.so" {
			t.Fatalf("library name = %q", name)
		}
	}
}

func TestCandidatePathsEnvOverrideFirst(t *testing.T) {
	override := t.TempDir()
	t.Setenv(LibraryPathEnv, override)

	paths := candidatePaths()
	if len(paths) == 0 {
		t.Fatal("no candidates")
	}
	want := filepath.Join(override, libraryName())
	if paths[0] != want {
		t.Fatalf("first candidate = %q, want env override %q", paths[0], want)
	}
}

func TestCandidatePathsIgnoresBlankOverride(t *testing.T) {
	t.Setenv(LibraryPathEnv, "   ")

	for _, p := range candidatePaths() {
		if strings.HasPrefix(p, "   ") {
			t.Fatalf("blank override produced candidate %q", p)
		}
	}
}

func TestCandidatePathsDeterministicAndDeduped(t *testing.T) {
	t.Setenv(LibraryPathEnv, t.TempDir())

	first := candidatePaths()
	second := candidatePaths()
	if len(first) != len(second) {
		t.Fatalf("candidate count changed between calls: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("candidate %d changed: %q vs %q", i, first[i], second[i])
		}
	}

	seen := map[string]struct{}{}
	for _, p := range first {
		if _, dup := seen[p]; dup {
			t.Fatalf("duplicate candidate %q", p)
		}
		seen[p] = struct{}{}
	}
}

func TestCandidatePathsIncludeBuildOutputs(t *testing.T) {
	var release, debug bool
	for _, p := range candidatePaths() {
		if strings.Contains(p, filepath.Join("target", "release")) {
			release = true
		}
		if strings.Contains(p, filepath.Join("target", "debug")) {
			debug = true
		}
	}
	if !release || !debug {
		t.Fatal("candidates missing conventional build-output locations")
	}
}

func TestResolveFailureEnumeratesPaths(t *testing.T) {
	t.Setenv(LibraryPathEnv, t.TempDir())

	_, err := resolve()
	if err == nil {
		t.Skip("native library present in environment")
	}
	msg := err.Error()
	if !strings.Contains(msg, LibraryPathEnv) {
		t.Fatalf("error does not mention override variable: %s", msg)
	}
	if !strings.Contains(msg, libraryName()) {
		t.Fatalf("error does not mention library name: %s", msg)
	}
}
