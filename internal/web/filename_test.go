// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecureFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My cool movie.mov", "My_cool_movie.mov"},
		{"../../../etc/passwd", "etc_passwd"},
		{"i contain cool \u00fcml\u00e4uts.txt", "i_contain_cool_umlauts.txt"},
		{`C:\Users\me\report.pdf`, "C_Users_me_report.pdf"},
		{"résumé (final).pdf", "resume_final.pdf"},
		{"__init__.pdf", "init__.pdf"},
		{".hidden.pdf", "hidden.pdf"},
		{"...", ""},
		{"日本語", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, secureFilename(tt.in))
		})
	}
}

func TestAllowedFile(t *testing.T) {
	assert.True(t, allowedFile("a.pdf"))
	assert.True(t, allowedFile("B.PDF"))
	assert.True(t, allowedFile("archive.tar.pdf"))
	assert.False(t, allowedFile("pdf"))
	assert.False(t, allowedFile("a.pdf.txt"))
	assert.False(t, allowedFile(""))
}
