// Package stringtest builds multi-line strings for test expectations.
package stringtest

import "strings"

// Input normalizes an indented raw string literal so that test sources can be
// written inline. One leading and one trailing newline are removed, the
// indentation common to all non-blank lines is removed, and whitespace-only
// lines become empty.
//
// Example:
//
//	src := stringtest.Input(`
//		/// scr_jump(height)
//		// @param height jump height
//	`) // -> "/// scr_jump(height)\n// @param height jump height\n"
func Input(s string) string {
	s = strings.TrimPrefix(s, "\n")
	s = strings.TrimSuffix(s, "\n")

	lines := strings.Split(s, "\n")

	indent := -1

	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}

		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}

	for i, l := range lines {
		switch {
		case strings.TrimSpace(l) == "":
			lines[i] = ""
		case indent > 0:
			lines[i] = l[indent:]
		}
	}

	return strings.Join(lines, "\n")
}

// JoinLF joins lines with "\n".
func JoinLF(lines ...string) string {
	return strings.Join(lines, "\n")
}

// JoinCRLF joins lines with "\r\n", for sources saved with Windows line
// endings.
func JoinCRLF(lines ...string) string {
	return strings.Join(lines, "\r\n")
}
