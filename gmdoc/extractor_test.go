package gmdoc_test

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/gmdoc/docflag"
	"go.jacobcolvin.com/gmdoc/gmdoc"
	"go.jacobcolvin.com/gmdoc/manifest"
	"go.jacobcolvin.com/gmdoc/stringtest"
)

const helpRTF = `{\rtf1\ansi // Extension\line // docs}`

// gmx wraps a scripts section in a project manifest with a help file.
func gmx(scripts string) string {
	return `<assets>` + scripts + `<help><rtf>help.rtf</rtf></help></assets>`
}

const nestedScripts = `
<scripts name="scripts">
  <scripts name="A">
    <scripts name="B">
      <script>scripts\script1.gml</script>
    </scripts>
    <script>scripts\script2.gml</script>
  </scripts>
</scripts>`

func decode(t *testing.T, doc string) *manifest.Node {
	t.Helper()

	root, err := manifest.Decode(strings.NewReader(doc))
	require.NoError(t, err)

	return root
}

func projectFS(scripts map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{
		"help.rtf": {Data: []byte(helpRTF)},
	}

	for name, src := range scripts {
		fsys["scripts/"+name] = &fstest.MapFile{Data: []byte(src)}
	}

	return fsys
}

var baseScripts = map[string]string{
	"script1.gml": stringtest.Input(`
		/// script1(a)
		// @param a value
		// Does one.
		return a;
	`),
	"script2.gml": "/// script2()\n// Does two.\n",
}

func withScript(name, src string) map[string]string {
	m := map[string]string{name: src}
	for k, v := range baseScripts {
		m[k] = v
	}

	return m
}

// openRecorder records every file opened through it.
type openRecorder struct {
	fs.FS

	opened []string
	mu     sync.Mutex
}

func (r *openRecorder) Open(name string) (fs.File, error) {
	r.mu.Lock()
	r.opened = append(r.opened, name)
	r.mu.Unlock()

	return r.FS.Open(name)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func quietExtractor(opts ...gmdoc.Option) *gmdoc.Extractor {
	return gmdoc.NewExtractor(append([]gmdoc.Option{gmdoc.WithLogger(quietLogger())}, opts...)...)
}

func methodNames(p *gmdoc.Project) []string {
	names := []string{}
	for _, m := range p.MethodList() {
		names = append(names, m.Name)
	}

	return names
}

func treeMethodNames(t *testing.T, p *gmdoc.Project) []string {
	t.Helper()

	names := []string{}

	err := p.Tree.Walk(p.Root, func(it *gmdoc.Item, _ int) error {
		if it.Kind == gmdoc.KindMethod {
			names = append(names, it.Name)
		}

		return nil
	})
	require.NoError(t, err)

	return names
}

func TestExtract(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		scripts      map[string]string
		wantErr      error
		manifest     string
		wantMethods  []string
		wantTree     []string
		wantWarnings []error
	}{
		"nested folders keep manifest order": {
			manifest:    gmx(nestedScripts),
			scripts:     baseScripts,
			wantMethods: []string{"script1", "script2"},
			wantTree:    []string{"script1", "script2"},
		},
		"private flag stays in tree": {
			manifest: gmx(strings.Replace(nestedScripts, `</scripts>
</scripts>`, `<script>scripts\script3.gml</script></scripts>
</scripts>`, 1)),
			scripts:     withScript("script3.gml", "/// script3()\n// @flags private\n"),
			wantMethods: []string{"script1", "script2"},
			wantTree:    []string{"script1", "script2", "script3"},
		},
		"unknown flag skips script": {
			manifest: gmx(`<scripts name="scripts">
				<script>scripts\script1.gml</script>
				<script>scripts\bad.gml</script>
				<script>scripts\script2.gml</script>
			</scripts>`),
			scripts:      withScript("bad.gml", "/// bad()\n// @flags sparkly\n"),
			wantMethods:  []string{"script1", "script2"},
			wantTree:     []string{"script1", "script2"},
			wantWarnings: []error{docflag.ErrUnknownFlag},
		},
		"missing script file": {
			manifest: gmx(`<scripts name="scripts">
				<script>scripts\gone.gml</script>
				<script>scripts\script1.gml</script>
			</scripts>`),
			scripts:      baseScripts,
			wantMethods:  []string{"script1"},
			wantTree:     []string{"script1"},
			wantWarnings: []error{gmdoc.ErrReadInput},
		},
		"malformed param keeps method": {
			manifest: gmx(`<scripts name="scripts">
				<script>scripts\loose.gml</script>
			</scripts>`),
			scripts:      withScript("loose.gml", "/// loose(x)\n// @param x\n"),
			wantMethods:  []string{"loose"},
			wantTree:     []string{"loose"},
			wantWarnings: []error{gmdoc.ErrMalformedParamLine},
		},
		"empty script element": {
			manifest: gmx(`<scripts name="scripts">
				<script></script>
				<script>scripts\script2.gml</script>
			</scripts>`),
			scripts:      baseScripts,
			wantMethods:  []string{"script2"},
			wantTree:     []string{"script2"},
			wantWarnings: []error{gmdoc.ErrInvalidScriptName},
		},
		"empty scripts section": {
			manifest:    gmx(`<scripts name="scripts"></scripts>`),
			scripts:     baseScripts,
			wantMethods: []string{},
			wantTree:    []string{},
		},
		"missing scripts section": {
			manifest: `<assets><help><rtf>help.rtf</rtf></help></assets>`,
			scripts:  baseScripts,
			wantErr:  gmdoc.ErrMissingManifestSection,
		},
		"missing help section": {
			manifest: `<assets>` + nestedScripts + `</assets>`,
			scripts:  baseScripts,
			wantErr:  gmdoc.ErrMissingManifestSection,
		},
		"empty help reference": {
			manifest: `<assets>` + nestedScripts + `<help><rtf></rtf></help></assets>`,
			scripts:  baseScripts,
			wantErr:  gmdoc.ErrMissingManifestSection,
		},
		"help file escapes project": {
			manifest: `<assets>` + nestedScripts + `<help><rtf>..\help.rtf</rtf></help></assets>`,
			scripts:  baseScripts,
			wantErr:  gmdoc.ErrReadInput,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			p, err := quietExtractor().Extract(t.Context(), gmdoc.Input{
				FS:        projectFS(tc.scripts),
				Manifest:  decode(t, tc.manifest),
				Name:      "game",
				Directory: "/src/game",
			})
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, p)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "game", p.Name)
			assert.Equal(t, "/src/game", p.Directory)
			assert.Equal(t, tc.wantMethods, methodNames(p))
			assert.Equal(t, tc.wantTree, treeMethodNames(t, p))

			require.Len(t, p.Warnings, len(tc.wantWarnings), "warnings: %v", p.Warnings)

			for i, want := range tc.wantWarnings {
				require.ErrorIs(t, p.Warnings[i], want)
			}
		})
	}
}

func TestExtractTreeShape(t *testing.T) {
	t.Parallel()

	p, err := quietExtractor().Extract(t.Context(), gmdoc.Input{
		FS:       projectFS(baseScripts),
		Manifest: decode(t, gmx(nestedScripts)),
		Name:     "game",
	})
	require.NoError(t, err)

	root := p.Tree.Item(p.Root)
	assert.Equal(t, "scripts", root.Name)
	require.Len(t, root.Children, 1)

	a := p.Tree.Item(root.Children[0])
	assert.Equal(t, "A", a.Name)
	assert.Equal(t, gmdoc.KindFolder, a.Kind)
	require.Len(t, a.Children, 2)

	b := p.Tree.Item(a.Children[0])
	assert.Equal(t, "B", b.Name)
	require.Len(t, b.Children, 1)

	script1 := p.Tree.Item(b.Children[0])
	assert.Equal(t, gmdoc.KindMethod, script1.Kind)
	assert.Equal(t, []string{"A", "B"}, p.Tree.Path(script1.ID))

	m := script1.Method
	require.NotNil(t, m)
	assert.Equal(t, "scripts/script1.gml", m.Path)
	assert.Equal(t, "script1(a)", m.Syntax)
	assert.Equal(t, "Does one.", m.Description)
	assert.Equal(t, []gmdoc.Param{{Name: "a", Type: gmdoc.TypeReal, Description: "value"}}, m.Params)

	assert.Equal(t, "help.rtf", p.Help.Path)
	assert.Equal(t, "// Extension\n// docs", p.Help.Plaintext)
	assert.Equal(t, []string{"// Extension", "// docs"}, p.Help.DocsSplit)
}

func TestExtractPrivateScriptNeverRead(t *testing.T) {
	t.Parallel()

	fsys := &openRecorder{
		FS: projectFS(withScript("_internal.gml", "/// _internal()\n")),
	}

	doc := gmx(`<scripts name="scripts">
		<script>scripts\_internal.gml</script>
		<script>scripts\script1.gml</script>
	</scripts>`)

	p, err := quietExtractor().Extract(t.Context(), gmdoc.Input{
		FS:       fsys,
		Manifest: decode(t, doc),
		Name:     "game",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"script1"}, methodNames(p))
	assert.Equal(t, []string{"script1"}, treeMethodNames(t, p))
	assert.Empty(t, p.Warnings)
	assert.NotContains(t, fsys.opened, "scripts/_internal.gml")
	assert.Contains(t, fsys.opened, "scripts/script1.gml")
}

func TestExtractConcurrentReadsKeepOrder(t *testing.T) {
	t.Parallel()

	var (
		elems   strings.Builder
		want    []string
		scripts = map[string]string{}
	)

	for i := range 40 {
		name := fmt.Sprintf("scr_%02d", 39-i)
		want = append(want, name)
		scripts[name+".gml"] = fmt.Sprintf("/// %s()\n", name)
		fmt.Fprintf(&elems, `<script>scripts\%s.gml</script>`, name)
	}

	doc := gmx(`<scripts name="scripts">` + elems.String() + `</scripts>`)

	for _, jobs := range []int{0, 1, 3, 16} {
		t.Run(fmt.Sprintf("jobs=%d", jobs), func(t *testing.T) {
			t.Parallel()

			p, err := quietExtractor(gmdoc.WithJobs(jobs)).Extract(t.Context(), gmdoc.Input{
				FS:       projectFS(scripts),
				Manifest: decode(t, doc),
				Name:     "game",
			})
			require.NoError(t, err)
			assert.Equal(t, want, methodNames(p))
		})
	}
}

func TestExtractCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := quietExtractor().Extract(ctx, gmdoc.Input{
		FS:       projectFS(baseScripts),
		Manifest: decode(t, gmx(nestedScripts)),
		Name:     "game",
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestExtractLogsWarnings(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	ex := gmdoc.NewExtractor(gmdoc.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	doc := gmx(`<scripts name="scripts"><script>scripts\gone.gml</script></scripts>`)

	p, err := ex.Extract(t.Context(), gmdoc.Input{
		FS:       projectFS(nil),
		Manifest: decode(t, doc),
		Name:     "game",
	})
	require.NoError(t, err)
	require.Len(t, p.Warnings, 1)

	assert.Equal(t, "gone", p.Warnings[0].Script)
	assert.Equal(t, "scripts/gone.gml", p.Warnings[0].Path)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "script=gone")
}

func TestExtractCustomFlags(t *testing.T) {
	t.Parallel()

	src, err := docflag.NewSource(docflag.Definition{Name: "deprecated", Default: "no", Set: "yes"})
	require.NoError(t, err)

	doc := gmx(`<scripts name="scripts"><script>scripts\old.gml</script></scripts>`)

	p, err := quietExtractor(gmdoc.WithFlagSource(src)).Extract(t.Context(), gmdoc.Input{
		FS:       projectFS(map[string]string{"old.gml": "/// old()\n// @flags deprecated\n"}),
		Manifest: decode(t, doc),
		Name:     "game",
	})
	require.NoError(t, err)
	require.Empty(t, p.Warnings)

	m, ok := p.Method("old")
	require.True(t, ok)
	assert.Equal(t, "yes", m.Flags.Get("deprecated", ""))
}

func TestExtractFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "game.project.gmx"), gmx(nestedScripts))
	writeFile(t, filepath.Join(dir, "help.rtf"), helpRTF)

	for name, src := range baseScripts {
		writeFile(t, filepath.Join(dir, "scripts", name), src)
	}

	ex := quietExtractor()

	p, err := ex.ExtractFile(t.Context(), filepath.Join(dir, "game.project.gmx"))
	require.NoError(t, err)
	assert.Equal(t, "game", p.Name)
	assert.Equal(t, dir, p.Directory)
	assert.Equal(t, []string{"script1", "script2"}, methodNames(p))

	_, err = ex.ExtractFile(t.Context(), filepath.Join(dir, "missing.project.gmx"))
	require.ErrorIs(t, err, gmdoc.ErrReadInput)

	writeFile(t, filepath.Join(dir, "broken.project.gmx"), "<assets><scripts>")

	_, err = ex.ExtractFile(t.Context(), filepath.Join(dir, "broken.project.gmx"))
	require.ErrorIs(t, err, manifest.ErrInvalidXML)
}

func writeFile(t *testing.T, name, data string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o750))
	require.NoError(t, os.WriteFile(name, []byte(data), 0o600))
}

func TestProjectName(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		path string
		want string
	}{
		"project manifest": {path: "/src/game/game.project.gmx", want: "game"},
		"other extension":  {path: "ext.xml", want: "ext"},
		"no extension":     {path: "dir/manifest", want: "manifest"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, gmdoc.ProjectName(tc.path))
		})
	}
}
