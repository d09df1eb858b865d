package filesystem_test

import (
	"path/filepath"
	"testing"

	"github.com/doeshing/prompt-enhancer/internal/pkg/filesystem"
)

func TestExpandPath(t *testing.T) {
	home := filesystem.UserHomeDir()

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "~", want: home},
		{in: "~/.prompt-enhancer", want: filepath.Join(home, ".prompt-enhancer")},
		{in: "/var/lib/enhancer", want: "/var/lib/enhancer"},
		{in: "data/../store", want: "store"},
	}

	for _, tt := range tests {
		if got := filesystem.ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
