package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
)

func TestPromptSource(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "path", input: "/srv/files\n", want: "/srv/files"},
		{name: "quoted path", input: "'/srv/my files'\n", want: "/srv/my files"},
		{name: "empty answer", input: "\n", want: "."},
		{name: "no newline", input: "archives", want: "archives"},
		{name: "closed input", input: "", want: "."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := promptSource(strings.NewReader(tt.input), &out)
			gt.NoError(t, err)
			gt.Equal(t, got, tt.want)
			gt.String(t, out.String()).Contains("[.]")
		})
	}
}

func TestReadSource_NotTerminal(t *testing.T) {
	var out bytes.Buffer
	got, err := readSource(strings.NewReader("/ignored\n"), &out)
	gt.NoError(t, err)
	gt.Equal(t, got, ".")
	gt.Equal(t, out.Len(), 0)
}
