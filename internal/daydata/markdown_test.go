package daydata

import (
	"strings"
	"testing"
)

func TestRenderInline(t *testing.T) {
	r := NewMarkdownRenderer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bold", "**due**", "<strong>due</strong>"},
		{"emphasis", "_soon_", "<em>soon</em>"},
		{"strikethrough", "~~cancelled~~", "<del>cancelled</del>"},
		{"raw html", "<b>x</b> y", "<b>x</b> y"},
		{"plain", "Standup", "Standup"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.RenderInline(tt.in)
			if err != nil {
				t.Fatalf("RenderInline: %v", err)
			}
			if got != tt.want {
				t.Errorf("RenderInline(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenderInline_MultipleParagraphsKept(t *testing.T) {
	got, err := NewMarkdownRenderer().RenderInline("one\n\ntwo")
	if err != nil {
		t.Fatalf("RenderInline: %v", err)
	}
	if strings.Count(got, "<p>") != 2 {
		t.Errorf("expected both paragraphs to keep their tags, got %q", got)
	}
}

func TestRenderInline_Autolink(t *testing.T) {
	got, err := NewMarkdownRenderer().RenderInline("see https://example.com")
	if err != nil {
		t.Fatalf("RenderInline: %v", err)
	}
	if !strings.Contains(got, `<a href="https://example.com">`) {
		t.Errorf("expected autolinked URL, got %q", got)
	}
}
