package gmdoc

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.jacobcolvin.com/gmdoc/docflag"
	"go.jacobcolvin.com/gmdoc/manifest"
	"go.jacobcolvin.com/gmdoc/rtf"
)

// Sentinel errors returned by the extractor.
var (
	ErrMissingManifestSection = errors.New("missing manifest section")
	ErrMalformedParamLine     = errors.New("malformed @param line")
	ErrInvalidScriptName      = errors.New("invalid script name")
	ErrReadInput              = errors.New("read input")
	ErrWriteOutput            = errors.New("write output")
	ErrWarnings               = errors.New("documentation has warnings")
	ErrInvalidOption          = errors.New("invalid option")
)

// Manifest element names.
const (
	sectionScripts = "scripts"
	sectionHelp    = "help"
	sectionHelpRTF = "rtf"

	// attrName marks a manifest element as a folder.
	attrName = "name"

	// privatePrefix marks scripts that are never documented.
	privatePrefix = "_"

	// manifestSuffix is stripped from manifest file names to name a project.
	manifestSuffix = ".project.gmx"
)

// Extractor builds a [Project] from a manifest and the files it references.
//
// Create instances with [NewExtractor]. An Extractor holds only immutable
// configuration and is safe for concurrent use.
type Extractor struct {
	flags  *docflag.Source
	rtf    *rtf.Extractor
	logger *slog.Logger
	jobs   int
}

// Option configures an [Extractor].
type Option func(*Extractor)

// WithFlagSource sets the registry of known "@flags" names.
func WithFlagSource(src *docflag.Source) Option {
	return func(e *Extractor) {
		e.flags = src
	}
}

// WithRTFExtractor sets the extractor used for the help file.
func WithRTFExtractor(ex *rtf.Extractor) Option {
	return func(e *Extractor) {
		e.rtf = ex
	}
}

// WithLogger sets the logger for progress and warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// WithJobs sets how many script files are read concurrently. Values less
// than 1 are clamped to 1.
func WithJobs(n int) Option {
	return func(e *Extractor) {
		e.jobs = max(n, 1)
	}
}

// NewExtractor creates an [Extractor] with the built-in flags, the default
// RTF extractor and [slog.Default], then applies opts.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		flags:  docflag.Default(),
		rtf:    rtf.New(),
		logger: slog.Default(),
		jobs:   1,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Input is everything [Extractor.Extract] reads.
type Input struct {
	// FS holds the project files; manifest paths are resolved against it.
	FS fs.FS
	// Manifest is the decoded project manifest.
	Manifest *manifest.Node
	// Name is the project name.
	Name string
	// Directory is the project directory reported in the [Project].
	Directory string
}

// ExtractFile decodes the manifest at manifestPath and extracts the project
// in the manifest's directory.
func (e *Extractor) ExtractFile(ctx context.Context, manifestPath string) (*Project, error) {
	f, err := os.Open(manifestPath) //nolint:gosec // Manifest path from CLI argument is expected.
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	root, err := manifest.Decode(f)

	closeErr := f.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", manifestPath, err)
	}

	if closeErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, closeErr)
	}

	dir := filepath.Dir(manifestPath)

	return e.Extract(ctx, Input{
		FS:        os.DirFS(dir),
		Manifest:  root,
		Name:      ProjectName(manifestPath),
		Directory: dir,
	})
}

// ProjectName derives a project name from its manifest file name.
func ProjectName(manifestPath string) string {
	base := filepath.Base(manifestPath)
	if name, ok := strings.CutSuffix(base, manifestSuffix); ok {
		return name
	}

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Extract builds the project described by in.
//
// A missing scripts or help section, or an unreadable help file, fails the
// whole extraction. Problems with single scripts are logged, recorded in
// [Project.Warnings], and do not stop the run.
func (e *Extractor) Extract(ctx context.Context, in Input) (*Project, error) {
	scripts := in.Manifest.Find(sectionScripts)
	if scripts == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingManifestSection, sectionScripts)
	}

	helpNode := in.Manifest.Find(sectionHelp, sectionHelpRTF)
	if helpNode == nil || helpNode.Text == "" {
		return nil, fmt.Errorf("%w: %s/%s", ErrMissingManifestSection, sectionHelp, sectionHelpRTF)
	}

	rootName, ok := scripts.Attr(attrName)
	if !ok {
		rootName = sectionScripts
	}

	p := NewProject(in.Name, in.Directory, rootName)

	help, err := e.readHelp(in.FS, helpNode.Text)
	if err != nil {
		return nil, err
	}

	p.Help = help

	b := &treeBuilder{
		ex:      e,
		project: p,
		fsys:    in.FS,
		refs:    make(map[*manifest.Node]*scriptRef),
	}

	b.collect(scripts)

	err = b.read(ctx, e.jobs)
	if err != nil {
		return nil, err
	}

	b.build(p.Root, scripts)

	e.logger.Debug("extracted project",
		slog.String("project", p.Name),
		slog.Int("methods", len(p.Methods)),
		slog.Int("warnings", len(p.Warnings)),
	)

	return p, nil
}

func (e *Extractor) readHelp(fsys fs.FS, ref string) (Help, error) {
	name, err := resolvePath(ref)
	if err != nil {
		return Help{}, fmt.Errorf("%w: help file: %w", ErrReadInput, err)
	}

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Help{}, fmt.Errorf("%w: help file: %w", ErrReadInput, err)
	}

	help := ParseHelp(data, e.rtf)
	help.Path = name

	return help, nil
}

// resolvePath turns a manifest path, which may use backslashes, into an
// [fs.FS] path.
func resolvePath(ref string) (string, error) {
	p := path.Clean(strings.ReplaceAll(strings.TrimSpace(ref), `\`, "/"))
	if !fs.ValidPath(p) || p == "." {
		return "", fmt.Errorf("invalid path %q", ref)
	}

	return p, nil
}
