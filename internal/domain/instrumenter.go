package domain

import (
	"context"
	"fmt"
	"go/ast"
	"go/importer"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gomu.dev/pkg/gomu/internal/adapter"
	m "gomu.dev/pkg/gomu/internal/model"
)

// InstrumentedSource is the result of instrumenting one Go file.
type InstrumentedSource struct {
	Source m.Source
	// Content is the rewritten source, or the original bytes when the file
	// holds no mutable sites.
	Content []byte
	// Sites is the number of rewritten operator occurrences.
	Sites int
}

// Instrumenter applies the transform pass to whole source files. Files must
// be fed in a stable order: identifier assignment follows feeding order, and
// stored "activate mutation N" instructions stay valid only if repeated
// passes over unchanged source yield the same numbering.
type Instrumenter interface {
	InstrumentSource(ctx context.Context, source m.Source) (InstrumentedSource, error)
	Registry() *Registry
}

type instrumenter struct {
	adapter.GoFileAdapter
	adapter.SourceFSAdapter

	registry *Registry
	// packages caches one parsed-and-checked context per source directory,
	// so every file of a package is transformed against the same type
	// information and the package is only checked once.
	packages map[string]*packageContext
}

// packageContext holds the parsed files of one directory plus the resolved
// type information of each package declared in it. All ASTs share one file
// set; the type checker's positions would be meaningless otherwise.
type packageContext struct {
	fset      *token.FileSet
	files     map[string]*ast.File
	contents  map[string][]byte
	infos     map[string]*types.Info
	parseErrs map[string]error
}

// NewInstrumenter creates an Instrumenter allocating identifiers from the
// provided registry.
func NewInstrumenter(goFileAdapter adapter.GoFileAdapter, fsAdapter adapter.SourceFSAdapter, registry *Registry) Instrumenter {
	return &instrumenter{
		GoFileAdapter:   goFileAdapter,
		SourceFSAdapter: fsAdapter,
		registry:        registry,
		packages:        make(map[string]*packageContext),
	}
}

// Registry returns the registry populated by this instrumenter.
func (in *instrumenter) Registry() *Registry {
	return in.registry
}

func (in *instrumenter) InstrumentSource(ctx context.Context, source m.Source) (InstrumentedSource, error) {
	if err := validateSource(source); err != nil {
		return InstrumentedSource{}, err
	}

	if err := validateAdapters(in); err != nil {
		return InstrumentedSource{}, err
	}

	pc, err := in.packageFor(ctx, filepath.Dir(string(source.Origin.FullPath)))
	if err != nil {
		return InstrumentedSource{}, err
	}

	full := string(source.Origin.FullPath)

	if parseErr, found := pc.parseErrs[full]; found {
		return InstrumentedSource{}, fmt.Errorf("failed to parse %s: %w", full, parseErr)
	}

	file, ok := pc.files[full]
	if !ok {
		// Surface the underlying filesystem error for paths the directory
		// scan never produced.
		if _, readErr := in.ReadFile(ctx, source.Origin.FullPath); readErr != nil {
			return InstrumentedSource{}, fmt.Errorf("failed to read %s: %w", full, readErr)
		}

		return InstrumentedSource{}, fmt.Errorf("%s is not an instrumentable file of its package", full)
	}

	instrumented, sites, err := in.instrumentFile(ctx, pc, file, source)
	if err != nil {
		return InstrumentedSource{}, err
	}

	return InstrumentedSource{Source: source, Content: instrumented, Sites: sites}, nil
}

func (in *instrumenter) instrumentFile(ctx context.Context, pc *packageContext, file *ast.File, source m.Source) ([]byte, int, error) {
	full := string(source.Origin.FullPath)

	transformer := NewTransformer(in.registry, pc.infos[full])

	sites, err := transformer.TransformFile(pc.fset, file, source.Origin.ShortPath)
	if err != nil {
		return nil, 0, fmt.Errorf("transform of %s failed: %w", full, err)
	}

	if sites == 0 {
		return pc.contents[full], 0, nil
	}

	instrumented, err := in.Format(ctx, pc.fset, file)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to print instrumented %s: %w", full, err)
	}

	// Re-validate the rewritten file. A parse failure here is a bug in the
	// transform pass, never a property of the user code, and must abort the
	// whole instrumentation run rather than emit unverified code.
	if _, err := in.Parse(ctx, token.NewFileSet(), full, instrumented); err != nil {
		return nil, 0, fmt.Errorf("instrumented %s failed re-validation: %w", full, err)
	}

	return instrumented, sites, nil
}

// packageFor parses and type-checks the directory holding the target file,
// caching the result. Sibling files that fail to parse degrade only the
// type information; they block instrumentation of themselves, not of the
// rest of the package.
func (in *instrumenter) packageFor(ctx context.Context, dir string) (*packageContext, error) {
	if pc, ok := in.packages[dir]; ok {
		return pc, nil
	}

	paths, err := in.listGoFiles(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	pc := &packageContext{
		fset:      token.NewFileSet(),
		files:     make(map[string]*ast.File, len(paths)),
		contents:  make(map[string][]byte, len(paths)),
		infos:     make(map[string]*types.Info, len(paths)),
		parseErrs: make(map[string]error),
	}

	for _, path := range paths {
		content, err := in.ReadFile(ctx, m.Path(path))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		file, err := in.Parse(ctx, pc.fset, path, content)
		if err != nil {
			pc.parseErrs[path] = err
			continue
		}

		pc.files[path] = file
		pc.contents[path] = content
	}

	in.checkTypes(pc, paths)
	in.packages[dir] = pc

	return pc, nil
}

// checkTypes resolves operand types for every parsed file, grouped by
// declared package name so a stray file of another package cannot poison
// the check. Checking is best effort: unresolvable imports and other type
// errors are swallowed, leaving the affected expressions untyped so the
// transform pass skips them instead of guessing.
func (in *instrumenter) checkTypes(pc *packageContext, paths []string) {
	groups := make(map[string][]string)

	for _, path := range paths {
		file, ok := pc.files[path]
		if !ok {
			continue
		}

		groups[file.Name.Name] = append(groups[file.Name.Name], path)
	}

	for pkgName, members := range groups {
		info := &types.Info{Types: make(map[ast.Expr]types.TypeAndValue)}

		files := make([]*ast.File, 0, len(members))
		for _, path := range members {
			files = append(files, pc.files[path])
		}

		config := types.Config{
			Importer: importer.Default(),
			Error:    func(error) {},
		}

		// The returned error repeats what the Error hook already swallowed.
		_, _ = config.Check(pkgName, pc.fset, files, info)

		for _, path := range members {
			pc.infos[path] = info
		}
	}
}

// listGoFiles returns the non-test Go files directly inside dir, sorted so
// the package is assembled in the same order on every pass.
func (in *instrumenter) listGoFiles(ctx context.Context, dir string) ([]string, error) {
	var paths []string

	err := in.Walk(ctx, m.Path(dir), false, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		paths = append(paths, path)

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)

	return paths, nil
}

func validateSource(source m.Source) error {
	if source.Origin == nil || source.Origin.FullPath == "" {
		return fmt.Errorf("missing source origin")
	}

	return nil
}

func validateAdapters(in *instrumenter) error {
	if in.SourceFSAdapter == nil || in.GoFileAdapter == nil {
		return fmt.Errorf("missing adapters")
	}

	return nil
}
