package unarchive_test

import (
	"fmt"
	"testing"

	"github.com/Defacto2/unarchive"
	"github.com/stretchr/testify/assert"
)

func ExampleReadme() {
	name := unarchive.Readme("APP.ZIP", "APP.EXE", "APP.TXT",
		"APP.BIN", "APP.DAT", "STUFF.DAT")
	fmt.Println(name)
	// Output: APP.TXT
}

func TestReadme(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		filename string
		files    []string
		want     string
	}{
		{"NFO #1", "APP.ZIP", []string{"APP.EXE", "APP.NFO"}, "APP.NFO"},
		{"TXT #1", "APP.ZIP", []string{"APP.EXE", "APP.TXT"}, "APP.TXT"},
		{"NFO #2", "APP.ZIP", []string{"APP.EXE", "STUFF.NFO"}, "STUFF.NFO"},
		{"DIZ #1", "APP.ZIP", []string{"APP.EXE", "FILE_ID.DIZ", "APP.DIZ"}, "FILE_ID.DIZ"},
		{"DIZ #2", "APP.ZIP", []string{"APP.EXE", "APP.DIZ"}, "APP.DIZ"},
		{"TXT #2", "APP.ZIP", []string{"APP.EXE", "STUFF.TXT"}, "STUFF.TXT"},
		{"DIZ #3", "APP.ZIP", []string{"APP.EXE", "STUFF.DIZ"}, "STUFF.DIZ"},
		{"None", "APP.ZIP", []string{"APP.EXE", "STUFF.DAT"}, ""},
		{"Tarball", "app.tar.gz", []string{"readme.txt", "app.nfo"}, "app.nfo"},
		{"Shallow", "app.7z", []string{"docs/z.txt", "a/b/a.txt", "y.txt"}, "y.txt"},
		{"Nested", "app.rar", []string{"bin/app", "docs/APP.TXT"}, "docs/APP.TXT"},
		{"Empty", "app.zip", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, unarchive.Readme(tt.filename, tt.files...))
		})
	}
}
