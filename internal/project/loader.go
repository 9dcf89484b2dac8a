package project

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sort"

	"github.com/ferrite-lang/ferrite/internal/ast"
	"github.com/ferrite-lang/ferrite/internal/diagnostics"
	"github.com/ferrite-lang/ferrite/internal/lexer"
	"github.com/ferrite-lang/ferrite/internal/parser"
	"github.com/ferrite-lang/ferrite/internal/traits"
	"github.com/ferrite-lang/ferrite/internal/typesystem"
)

// Project is one loaded compilation unit: parsed files plus the ingot
// handle scoping all predicate lists derived from it.
type Project struct {
	Dir      string
	Manifest *Manifest
	Ingot    traits.Ingot

	Files       []*ast.Program
	ParseErrors []*diagnostics.DiagnosticError

	fingerprint string
}

// Load reads the manifest and parses every source file. Parse errors are
// collected, not fatal; only I/O and manifest problems return a Go error.
func Load(dir string) (*Project, error) {
	manifest, err := LoadManifest(dir)
	if err != nil {
		return nil, err
	}

	files, err := manifest.sourceFiles(dir)
	if err != nil {
		return nil, err
	}

	proj := &Project{
		Dir:      dir,
		Manifest: manifest,
		Ingot:    traits.NewIngot(),
	}

	hash := sha256.New()
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		fmt.Fprintf(hash, "%s\x00%d\x00", path, len(src))
		hash.Write(src)

		p := parser.New(lexer.New(string(src)))
		program := p.ParseProgram()
		program.File = path

		for _, e := range p.Errors() {
			if e.File == "" {
				e.File = path
			}
		}
		proj.ParseErrors = append(proj.ParseErrors, p.Errors()...)
		proj.Files = append(proj.Files, program)
	}
	proj.fingerprint = hex.EncodeToString(hash.Sum(nil))

	return proj, nil
}

// Fingerprint identifies the project contents: any change to a source
// file's path or bytes changes it. Used as the incremental cache key.
func (p *Project) Fingerprint() string { return p.fingerprint }

// BuildChecker declares every parsed trait into a fresh environment and
// returns its checker. Declaration order follows file order, which is
// stable, so definition IDs are deterministic.
func (p *Project) BuildChecker() *traits.Checker {
	env := traits.NewEnv(p.Ingot, typesystem.NewInterner())
	for _, f := range p.Files {
		env.DeclareProgram(f)
	}
	return traits.NewChecker(env)
}

// Check runs the full analysis: parse errors first, then super-trait
// collection for every declared trait, all tagged with file paths. A bound
// always lives in the file declaring its trait, so trait diagnostics are
// attributed through the declaration.
func (p *Project) Check() []*diagnostics.DiagnosticError {
	diags := append([]*diagnostics.DiagnosticError(nil), p.ParseErrors...)

	declFile := make(map[*ast.TraitDeclaration]string)
	for _, f := range p.Files {
		for _, stmt := range f.Statements {
			if td, ok := stmt.(*ast.TraitDeclaration); ok {
				declFile[td] = f.File
			}
		}
	}

	checker := p.BuildChecker()
	for _, def := range checker.Env().Defs() {
		_, ds := checker.CollectSuperTraits(def.ID)
		for _, d := range ds {
			if d.File == "" {
				d.File = declFile[def.Decl]
			}
		}
		diags = append(diags, ds...)
	}

	return diags
}

// SortDiagnostics orders diagnostics by file, then position, then code,
// for stable output and cache replay.
func SortDiagnostics(diags []*diagnostics.DiagnosticError) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Token.Line != b.Token.Line {
			return a.Token.Line < b.Token.Line
		}
		if a.Token.Column != b.Token.Column {
			return a.Token.Column < b.Token.Column
		}
		return a.Code < b.Code
	})
}
