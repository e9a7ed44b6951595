package htmltext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text untouched", "Harvesting maize near Nakuru", "Harvesting maize near Nakuru"},
		{"tags removed", "<p>Harvesting <b>maize</b></p>", "Harvesting maize"},
		{"whitespace collapsed", "  Harvesting\n\tmaize   near  Nakuru ", "Harvesting maize near Nakuru"},
		{"script contents dropped", "<p>Before</p><script>alert('x')</script><p>After</p>", "Before After"},
		{"style contents dropped", "<style>p { color: red }</style>Visible", "Visible"},
		{"nested markup", "<div><ul><li>Feed cattle</li><li>Clean pens</li></ul></div>", "Feed cattle Clean pens"},
		{"entities decoded", "Meals &amp; housing provided", "Meals & housing provided"},
		{"empty input", "", ""},
		{"only markup", "<br/><hr/>", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Strip(tc.input))
		})
	}
}

func TestStripUnclosedTags(t *testing.T) {
	assert.Equal(t, "Before After", Strip("<p>Before<p>After"))
	assert.Equal(t, "Text", Strip("Text<script>never closed"))
}
