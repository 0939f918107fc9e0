package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadsPath(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		want   string
	}{
		{name: "absolute url", prefix: "http://localhost:8080/uploads", want: "/uploads"},
		{name: "trailing slash", prefix: "https://cdn.example.com/media/images/", want: "/media/images"},
		{name: "plain path", prefix: "/files", want: "/files"},
		{name: "host only", prefix: "http://localhost:8080", want: "/uploads"},
		{name: "empty", prefix: "", want: "/uploads"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, uploadsPath(tt.prefix))
		})
	}
}
