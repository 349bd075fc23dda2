package core

import "testing"

func TestNormalizeCommand(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"rm -rf /", "rm -rf /"},
		{"FOO=bar rm -rf /", "rm -rf /"},
		{"A=1 B=two  C=x/y rm -rf /", "rm -rf /"},
		{"  FOO=bar   git push --force  ", "git push --force"},
		{"FOO=bar", "FOO=bar"},
		{"echo FOO=bar", "echo FOO=bar"},
		{"FOO= rm x", "FOO= rm x"},
		{"", ""},
		{"RM -RF /", "RM -RF /"},
	}

	for _, tt := range tests {
		if got := NormalizeCommand(tt.in); got != tt.want {
			t.Fatalf("NormalizeCommand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
