package bindings

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ebitengine/purego"
)

// LibraryPathEnv overrides every other search location. It must name a
// directory containing the native library, not the library file itself.
const LibraryPathEnv = "DOCSTONE_LIBRARY_PATH"

// maxUpwardWalk bounds the parent-directory search for build-output layouts.
const maxUpwardWalk = 5

// libraryName returns the platform file name of the engine library.
func libraryName() string {
	switch runtime.GOOS {
	case "darwin":
		return "libdocstone_ffi.dylib"
	case "windows":
		return "docstone_ffi.dll"
	default:
		return "libdocstone_ffi.so"
	}
}

// siblingNames lists native dependencies shipped alongside the engine
// (PDF rendering and tensor runtime). They are preloaded before the primary
// library because the dynamic linker may not find them via default rules.
func siblingNames() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"libpdfium.dylib", "libonnxruntime.dylib"}
	case "windows":
		return []string{"pdfium.dll", "onnxruntime.dll"}
	default:
		return []string{"libpdfium.so", "libonnxruntime.so"}
	}
}

// candidatePaths builds the ordered list of library paths to try. Order is
// deterministic: env override, executable directory, packaged runtime
// subdirectory, working directory, then a bounded upward walk over
// conventional build-output locations.
func candidatePaths() []string {
	lib := libraryName()
	var paths []string

	if dir := strings.TrimSpace(os.Getenv(LibraryPathEnv)); dir != "" {
		paths = append(paths, filepath.Join(dir, lib))
	}

	runtimeDir := filepath.Join("runtimes", runtime.GOOS+"-"+runtime.GOARCH, "native")

	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		paths = append(paths,
			filepath.Join(execDir, lib),
			filepath.Join(execDir, runtimeDir, lib),
		)
	}

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, lib))

		dir := cwd
		for i := 0; i < maxUpwardWalk; i++ {
			for _, sub := range []string{
				filepath.Join("target", "release"),
				filepath.Join("target", "debug"),
				filepath.Join("build", "lib"),
				"lib",
			} {
				paths = append(paths, filepath.Join(dir, sub, lib))
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	return dedupe(paths)
}

func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := paths[:0]
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// preloadSiblings opens the sibling native dependencies found next to a
// candidate with RTLD_GLOBAL so the primary library's linker can resolve
// them. Individual failures are ignored: a missing sibling only matters if
// the engine actually needs it, and then the engine reports it.
func preloadSiblings(dir string) {
	for _, name := range siblingNames() {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if _, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL); err != nil {
			slog.Debug("docstone: sibling preload failed", "path", path, "error", err)
			continue
		}
		slog.Debug("docstone: preloaded sibling library", "path", path)
	}
}

// resolve walks the candidate list and opens the first library that loads.
// A missing engine is a deployment error, not a transient one, so the
// returned error enumerates every path tried and resolve is never retried.
func resolve() (uintptr, error) {
	candidates := candidatePaths()
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		preloadSiblings(filepath.Dir(path))
		handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			slog.Debug("docstone: candidate failed to load", "path", path, "error", err)
			continue
		}
		slog.Debug("docstone: loaded native library", "path", path)
		return handle, nil
	}

	return 0, fmt.Errorf(
		"unable to locate %s; set %s to the directory containing the library. Paths tried:\n  %s",
		libraryName(), LibraryPathEnv, strings.Join(candidates, "\n  "))
}
