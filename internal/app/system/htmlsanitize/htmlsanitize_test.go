package htmlsanitize_test

import (
	"testing"

	"github.com/dalemusser/facultyhub/internal/app/system/htmlsanitize"
)

func TestText_Empty(t *testing.T) {
	if got := htmlsanitize.Text(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestText_PlainTextUnchanged(t *testing.T) {
	if got := htmlsanitize.Text("Effects of Climate Change on Coastal Agriculture"); got != "Effects of Climate Change on Coastal Agriculture" {
		t.Errorf("plain text altered: %q", got)
	}
}

func TestText_StripsTags(t *testing.T) {
	got := htmlsanitize.Text("<b>Machine Learning</b> in <i>Education</i>")
	if got != "Machine Learning in Education" {
		t.Errorf("expected tags stripped, got %q", got)
	}
}

func TestText_RemovesScript(t *testing.T) {
	got := htmlsanitize.Text("Title<script>alert('xss')</script>")
	if got != "Title" {
		t.Errorf("expected script removed, got %q", got)
	}
}

func TestText_Trims(t *testing.T) {
	if got := htmlsanitize.Text("  Journal of Nursing  "); got != "Journal of Nursing" {
		t.Errorf("expected trimmed, got %q", got)
	}
}

func TestText_LiteralAngleBracketsSurvive(t *testing.T) {
	got := htmlsanitize.Text("p < 0.05 and n > 30")
	if got != "p < 0.05 and n > 30" {
		t.Errorf("literal comparisons mangled: %q", got)
	}
}

func TestText_Ampersand(t *testing.T) {
	if got := htmlsanitize.Text("Research & Development"); got != "Research & Development" {
		t.Errorf("ampersand mangled: %q", got)
	}
}
