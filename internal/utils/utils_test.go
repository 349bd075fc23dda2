package utils

import "testing"

func TestStripANSI(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"\x1b[31mred\x1b[0m", "red"},
		{"\x1b[1;38;5;203mbold\x1b[0m text", "bold text"},
		{"\x1b[?25lhidden\x1b[?25h", "hidden"},
		{"\x1b]0;pwned\x07ls", "ls"},
		{"\x1b]8;;http://evil\x1b\\rm -rf /\x1b]8;;\x1b\\", "rm -rf /"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := StripANSI(tc.in); got != tc.want {
			t.Fatalf("StripANSI(%q)=%q want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeInput_DropsControlCharacters(t *testing.T) {
	in := "rm -rf /\x07tmp\x1b[2J\r\n\tdone"
	want := "rm -rf /tmp\n\tdone"
	if got := SanitizeInput(in); got != want {
		t.Fatalf("SanitizeInput(%q)=%q want %q", in, got, want)
	}
}

func TestSanitizeInput_UnterminatedOSC(t *testing.T) {
	// Without a terminator the sequence is not stripped, but the ESC is dropped.
	in := "echo \x1b]0;title"
	want := "echo ]0;title"
	if got := SanitizeInput(in); got != want {
		t.Fatalf("SanitizeInput(%q)=%q want %q", in, got, want)
	}
}

func TestSanitizeInput_KeepsUnicode(t *testing.T) {
	in := "echo 日本語 🔴"
	if got := SanitizeInput(in); got != in {
		t.Fatalf("expected unicode to survive, got %q", got)
	}
}
