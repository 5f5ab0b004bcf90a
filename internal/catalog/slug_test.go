package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "summit title",
			title: "Will Trump and Putin hold a summit in Alaska in 2025?",
			want:  "will-trump-and-putin-hold-a-summit-in-alaska-in-2025",
		},
		{
			name:  "punctuation runs collapse to one hyphen",
			title: "AI -- really?! Yes.",
			want:  "ai-really-yes",
		},
		{
			name:  "leading and trailing junk stripped",
			title: "  (What now?)  ",
			want:  "what-now",
		},
		{
			name:  "uppercase folded",
			title: "BTC To $100K",
			want:  "btc-to-100k",
		},
		{
			name:  "only punctuation",
			title: "???",
			want:  "",
		},
		{
			name:  "empty",
			title: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	s := Slugify("Will Germany's economy recover from 2-year contraction in 2025?")
	assert.Equal(t, s, Slugify(s))
}
