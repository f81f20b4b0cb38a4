package sanitize

import (
	"strings"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "Hi, I'm Dorothy", "Hi, I'm Dorothy"},
		{"trims whitespace", "  yesterday \n", "yesterday"},
		{"empty", "", ""},
		{"script block removed", `hello<script>alert("x")</script> there`, "hello there"},
		{"tags stripped", "<b>I was</b> in the park", "I was in the park"},
		{"javascript scheme", "javascript:alert(1)", "alert(1)"},
		{"mixed case scheme", "JaVaScRiPt:go", "go"},
		{"data scheme", "data:text/plain", "text/plain"},
		{"ampersand kept", "me & my mum", "me & my mum"},
		{"nested javascript scheme", "javajavascript:script:alert(1)", "alert(1)"},
		{"nested data scheme", "dadata:ta:text/html", "text/html"},
		{"nested vbscript scheme", "vbvbscript:script:x", "x"},
		{"doubly nested scheme", "jajavajavascript:script:vascript:go", "go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.in)
			if got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClean_OutputIsInert(t *testing.T) {
	inputs := []string{
		`<script>document.cookie</script>`,
		`<SCRIPT src=x></SCRIPT>text`,
		`<img src=x onerror=alert(1)>`,
		`<a href="javascript:void(0)">click</a>`,
		`a < b > c`,
		`&lt;script&gt;alert(1)&lt;/script&gt;`,
		`onload = bad()`,
		`<<script>script>alert(1)<</script>/script>`,
		`vbscript:msgbox`,
		`javajavascript:script:alert(1)`,
		`dadata:ta:text/html`,
		`vbvbscript:script:x`,
		`ononload=load=bad()`,
		`<a href="javajavascript:script:x">link</a>`,
	}

	for _, in := range inputs {
		got := strings.ToLower(Clean(in))
		for _, bad := range []string{"<script", "javascript:", "vbscript:", "data:", "<", ">"} {
			if strings.Contains(got, bad) {
				t.Errorf("Clean(%q) = %q, still contains %q", in, got, bad)
			}
		}
		if eventHandler.MatchString(got) {
			t.Errorf("Clean(%q) = %q, still contains an event handler", in, got)
		}
	}
}

func TestFold(t *testing.T) {
	if got := Fold("I’M Here"); got != "i'm here" {
		t.Errorf("Fold = %q, want %q", got, "i'm here")
	}
}
