package sanitize

import (
	"strings"
	"testing"
)

func TestText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "hello there", "hello there"},
		{"script content dropped", "<script>alert(1)</script>hi", "hi"},
		{"style content dropped", "<style>body{}</style>ok", "ok"},
		{"markup stripped, text kept", "<b>bold</b> move", "bold move"},
		{"img with handler removed", `<img src=x onerror=alert(1)>`, ""},
		{"entities round-trip", "a & b < c", "a & b < c"},
		{"whitespace trimmed", "  padded  ", "padded"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Text(tc.in); got != tc.want {
				t.Errorf("Text(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestVanity(t *testing.T) {
	if got := Vanity("<i>Al</i>"); got != "Al" {
		t.Errorf("Vanity() = %q, want %q", got, "Al")
	}

	if got := Vanity("<script>x</script>"); got != "" {
		t.Errorf("Vanity() = %q, want empty string", got)
	}

	long := strings.Repeat("n", MaxVanityLength+10)
	if got := Vanity(long); len(got) != MaxVanityLength {
		t.Errorf("Vanity() length = %d, want %d", len(got), MaxVanityLength)
	}
}
