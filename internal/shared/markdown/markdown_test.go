package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_ToHTML(t *testing.T) {
	r := NewRenderer()

	t.Run("formats emphasis", func(t *testing.T) {
		out, err := r.ToHTML("Stitching is **even** and the heat stamp is *crisp*.")
		require.NoError(t, err)
		assert.Contains(t, string(out), "<strong>even</strong>")
		assert.Contains(t, string(out), "<em>crisp</em>")
	})

	t.Run("strips scripts and handlers", func(t *testing.T) {
		out, err := r.ToHTML(`<script>alert(1)</script><img src=x onerror=alert(1)> genuine`)
		require.NoError(t, err)
		assert.NotContains(t, string(out), "<script")
		assert.NotContains(t, string(out), "onerror")
	})
}

func TestRenderer_PlainText(t *testing.T) {
	r := NewRenderer()
	assert.Equal(t, "looks genuine", r.PlainText("<b>looks</b> genuine"))
}
