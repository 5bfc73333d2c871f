package layout

import "testing"

func TestSplitListMarker(t *testing.T) {
	tests := []struct {
		in     string
		marker string
		rest   string
		ok     bool
	}{
		{"• First item", "•", "First item", true},
		{"- dashed item", "-", "dashed item", true},
		{"* starred item", "*", "starred item", true},
		{"◦ nested item", "◦", "nested item", true},
		{"– en dash item", "–", "en dash item", true},
		{"1. Numbered", "1.", "Numbered", true},
		{"12) Parenthesized", "12)", "Parenthesized", true},
		{"999. Three digits", "999.", "Three digits", true},
		{"a. Lettered", "a.", "Lettered", true},
		{"B) Capital", "B)", "Capital", true},
		{"iv. Roman", "iv.", "Roman", true},
		{"III. Capital roman", "III.", "Capital roman", true},
		{"  • indented bullet", "•", "indented bullet", true},
		{"•", "•", "", true},

		{"", "", "", false},
		{"plain text", "", "", false},
		{"word. Sentence start", "", "", false}, // marker is too long
		{"1a. mixed", "", "", false},
		{"ab. not roman", "", "", false},
		{"1234. four digits", "", "", false},
		{"1.no space after dot", "", "", false},
		{"-dash glued to text", "", "", false},
		{"3.14 is pi", "", "", false},
	}

	for _, tt := range tests {
		marker, rest, ok := SplitListMarker(tt.in)
		if ok != tt.ok {
			t.Errorf("SplitListMarker(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if marker != tt.marker || rest != tt.rest {
			t.Errorf("SplitListMarker(%q) = (%q, %q), want (%q, %q)", tt.in, marker, rest, tt.marker, tt.rest)
		}
	}
}

func TestIsListItem(t *testing.T) {
	if !IsListItem("• bullet") {
		t.Error("IsListItem(bullet) = false")
	}
	if IsListItem("Regular sentence.") {
		t.Error("IsListItem(sentence) = true")
	}
}
