package gmdoc

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"

	"go.jacobcolvin.com/gmdoc/manifest"
)

// scriptRef is one script element of the manifest.
type scriptRef struct {
	err     error
	name    string
	path    string
	data    []byte
	private bool
}

func newScriptRef(text string) *scriptRef {
	norm := strings.ReplaceAll(strings.TrimSpace(text), `\`, "/")
	base := path.Base(norm)

	ref := &scriptRef{
		name: strings.TrimSuffix(base, path.Ext(base)),
		path: norm,
	}

	switch {
	case ref.name == "" || ref.name == "/":
		ref.err = fmt.Errorf("%w: %q", ErrInvalidScriptName, text)
	case strings.HasPrefix(ref.name, privatePrefix):
		ref.private = true
	default:
		p, err := resolvePath(text)
		if err != nil {
			ref.err = fmt.Errorf("%w: %w", ErrReadInput, err)
		} else {
			ref.path = p
		}
	}

	return ref
}

// treeBuilder mirrors the manifest's script section into a [Project].
type treeBuilder struct {
	ex      *Extractor
	project *Project
	fsys    fs.FS
	refs    map[*manifest.Node]*scriptRef
	pending []*scriptRef
}

// collect records every script element below n. Elements with a name
// attribute are folders; all others are scripts.
func (b *treeBuilder) collect(n *manifest.Node) {
	for _, c := range n.Children {
		if _, ok := c.Attr(attrName); ok {
			b.collect(c)

			continue
		}

		ref := newScriptRef(c.Text)
		b.refs[c] = ref

		if ref.err == nil && !ref.private {
			b.pending = append(b.pending, ref)
		}
	}
}

// read loads the pending scripts with at most jobs concurrent reads. Read
// failures are kept on each script; only cancellation of ctx is returned.
func (b *treeBuilder) read(ctx context.Context, jobs int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for _, ref := range b.pending {
		g.Go(func() error {
			err := ctx.Err()
			if err != nil {
				return err
			}

			b.ex.logger.Debug("reading script",
				slog.String("script", ref.name),
				slog.String("path", ref.path),
			)

			data, err := fs.ReadFile(b.fsys, ref.path)
			if err != nil {
				ref.err = fmt.Errorf("%w: %w", ErrReadInput, err)

				return nil
			}

			ref.data = data

			return nil
		})
	}

	return g.Wait()
}

// build adds the folders and methods below n to parent, in document order.
func (b *treeBuilder) build(parent ItemID, n *manifest.Node) {
	for _, c := range n.Children {
		if name, ok := c.Attr(attrName); ok {
			b.build(b.project.AddFolder(parent, name), c)

			continue
		}

		b.addScript(parent, b.refs[c])
	}
}

func (b *treeBuilder) addScript(parent ItemID, ref *scriptRef) {
	if ref.private {
		b.ex.logger.Debug("skipping private script", slog.String("script", ref.name))

		return
	}

	if ref.err != nil {
		b.warn(ref, ref.err)

		return
	}

	m, warnings, err := ParseScript(ref.name, string(ref.data), b.ex.flags)
	for _, w := range warnings {
		b.warn(ref, w)
	}

	if err != nil {
		b.warn(ref, err)

		return
	}

	m.Path = ref.path

	b.project.AddMethod(parent, m)

	if m.Private() {
		b.ex.logger.Debug("private method left out of method list", slog.String("script", ref.name))
	}
}

func (b *treeBuilder) warn(ref *scriptRef, err error) {
	b.ex.logger.Warn("script documentation",
		slog.String("script", ref.name),
		slog.String("path", ref.path),
		slog.Any("error", err),
	)

	b.project.Warnings = append(b.project.Warnings, newWarning(ref.name, ref.path, err))
}
