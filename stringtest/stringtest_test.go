package stringtest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.jacobcolvin.com/gmdoc/stringtest"
)

func TestInput(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  string
	}{
		"empty string": {
			input: "",
			want:  "",
		},
		"single line": {
			input: "\nhello\n",
			want:  "hello",
		},
		"common tab indent": {
			input: "\n\t\t// a\n\t\t// b\n\t",
			want:  "// a\n// b\n",
		},
		"varying indent": {
			input: `
    /**
     * body
     */`,
			want: "/**\n * body\n */",
		},
		"whitespace-only lines": {
			input: "\n  a\n    \n  b",
			want:  "a\n\nb",
		},
		"only one leading newline removed": {
			input: "\n\nline",
			want:  "\nline",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, stringtest.Input(tc.input))
		})
	}
}

func TestJoin(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a\nb\n", stringtest.JoinLF("a", "b", ""))
	assert.Equal(t, "a\r\nb", stringtest.JoinCRLF("a", "b"))
	assert.Empty(t, stringtest.JoinLF())
}
