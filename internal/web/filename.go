// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// secureFilename reduces name to a flat ASCII filename safe to join onto a
// scratch directory. Accents are folded, path separators and whitespace
// become underscores, anything outside [A-Za-z0-9_.-] is dropped and leading
// or trailing dots and underscores are trimmed. The result may be empty.
func secureFilename(name string) string {
	name = norm.NFKD.String(name)

	var b strings.Builder
	for _, r := range name {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	name = strings.NewReplacer("/", " ", `\`, " ").Replace(b.String())
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// allowedFile reports whether name carries a .pdf extension, in any case.
func allowedFile(name string) bool {
	return strings.Contains(name, ".") && strings.EqualFold(filepath.Ext(name), ".pdf")
}
