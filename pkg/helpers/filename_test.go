package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecureFilename(t *testing.T) {
	cases := map[string]string{
		"book.pdf":               "book.pdf",
		"My Book.pdf":            "My_Book.pdf",
		"../../etc/passwd":       "passwd",
		`C:\Users\kev\cover.png`: "cover.png",
		"..":                     "",
		"...pdf":                 "pdf",
		"a..b.pdf":               "a.b.pdf",
		"résumé café.pdf":        "resume_cafe.pdf",
		"file;rm -rf *.pdf":      "filerm_-rf_.pdf",
		"  spaced  ":             "spaced",
		"файл.pdf":               "pdf",
		".htaccess":              "htaccess",
		"name\x00.pdf":           "name.pdf",
	}
	for in, want := range cases {
		assert.Equal(t, want, SecureFilename(in), "SecureFilename(%q)", in)
	}
}

func TestSecureFilename_NeverEscapes(t *testing.T) {
	inputs := []string{"../x", "..\\x", "/abs/path.pdf", "a/../../b", "....//....//etc", "%2e%2e%2fetc"}
	for _, in := range inputs {
		out := SecureFilename(in)
		assert.False(t, strings.ContainsAny(out, `/\`), out)
		assert.NotContains(t, out, "..")
		assert.False(t, strings.HasPrefix(out, "."), out)
	}
}

func TestFileExt(t *testing.T) {
	assert.Equal(t, "pdf", FileExt("Book.PDF"))
	assert.Equal(t, "png", FileExt("dir.v2/cover.png"))
	assert.Equal(t, "", FileExt("noext"))
	assert.Equal(t, "", FileExt("trailing."))
	assert.Equal(t, "jpeg", FileExt(`C:\x\a.b.JPEG`))
}
