package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/ferrite-lang/ferrite/internal/cache"
	"github.com/ferrite-lang/ferrite/internal/config"
	"github.com/ferrite-lang/ferrite/internal/diagnostics"
	"github.com/ferrite-lang/ferrite/internal/project"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s check [--no-cache] [dir]\n", os.Args[0])
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 || os.Args[1] != "check" {
		usage()
	}

	dir := "."
	noCache := false
	for _, arg := range os.Args[2:] {
		switch arg {
		case "--no-cache":
			noCache = true
		default:
			dir = arg
		}
	}

	proj, err := project.Load(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading project: %s\n", err)
		os.Exit(1)
	}

	var diags []*diagnostics.DiagnosticError
	var store *cache.Store
	cached := false

	if !noCache {
		store, err = cache.Open(filepath.Join(dir, config.CacheFileName))
		if err != nil {
			// A broken cache never blocks checking.
			fmt.Fprintf(os.Stderr, "Warning: %s\n", err)
			store = nil
		} else {
			defer store.Close()
			if hit, ok, err := store.Lookup(proj.Fingerprint()); err == nil && ok {
				diags = hit
				cached = true
			}
		}
	}

	if !cached {
		diags = proj.Check()
		project.SortDiagnostics(diags)
		if store != nil {
			if err := store.Record(proj.Fingerprint(), proj.Manifest.Package, diags); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %s\n", err)
			}
		}
	}

	printDiagnostics(diags)

	if len(diags) > 0 {
		os.Exit(1)
	}

	fmt.Printf("%s: %d trait file(s) ok\n", proj.Manifest.Package, len(proj.Files))
}

func printDiagnostics(diags []*diagnostics.DiagnosticError) {
	red, reset := "", ""
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		red, reset = "\x1b[31m", "\x1b[0m"
	}

	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "%serror%s %s\n", red, reset, d.Error())
	}
}
