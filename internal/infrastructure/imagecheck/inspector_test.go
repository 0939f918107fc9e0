package imagecheck

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, w, h int, format imaging.Format) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 120, B: 40, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, format))
	return buf.Bytes()
}

func TestInspector_Inspect(t *testing.T) {
	jpeg := encode(t, 8, 8, imaging.JPEG)
	png := encode(t, 4, 4, imaging.PNG)

	tests := []struct {
		name      string
		data      []byte
		maxPixels int
		want      string
		wantErr   bool
	}{
		{name: "jpeg", data: jpeg, want: "image/jpeg"},
		{name: "png", data: png, want: "image/png"},
		{name: "plain text", data: []byte("hello, this is not an image"), wantErr: true},
		{name: "pdf", data: []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n"), wantErr: true},
		{name: "empty", data: nil, wantErr: true},
		{name: "truncated jpeg", data: jpeg[:20], wantErr: true},
		{name: "too many pixels", data: jpeg, maxPixels: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewInspector(tt.maxPixels).Inspect(tt.data)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotAnImage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInspector_SinglePixelPNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))

	ct, err := NewInspector(0).Inspect(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
}
