package compression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTargetSize(t *testing.T) {
	tests := []struct {
		name           string
		width, height  int
		maxW, maxH     float64
		wantW, wantH   int
	}{
		{
			name:  "fits inside box keeps size",
			width: 300, height: 400,
			maxW: 612, maxH: 816,
			wantW: 300, wantH: 400,
		},
		{
			name:  "same ratio snaps to box",
			width: 1224, height: 1632,
			maxW: 612, maxH: 816,
			wantW: 612, wantH: 816,
		},
		{
			name:  "wide image limited by width",
			width: 4000, height: 3000,
			maxW: 612, maxH: 816,
			wantW: 612, wantH: 459,
		},
		{
			name:  "tall image limited by height",
			width: 1000, height: 4000,
			maxW: 612, maxH: 816,
			wantW: 204, wantH: 816,
		},
		{
			name:  "only width exceeds",
			width: 800, height: 400,
			maxW: 612, maxH: 816,
			wantW: 612, wantH: 306,
		},
		{
			name:  "tall edge ratio truncates scaled width",
			width: 295, height: 1003,
			maxW: 612, maxH: 816,
			wantW: 239, wantH: 816,
		},
		{
			name:  "wide edge ratio truncates scaled height",
			width: 762, height: 635,
			maxW: 612, maxH: 816,
			wantW: 612, wantH: 509,
		},
		{
			name:  "extreme strip never collapses to zero",
			width: 10000, height: 1,
			maxW: 100, maxH: 100,
			wantW: 100, wantH: 1,
		},
		{
			name:  "empty source",
			width: 0, height: 0,
			maxW: 612, maxH: 816,
			wantW: 0, wantH: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := TargetSize(tt.width, tt.height, tt.maxW, tt.maxH)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestSampleSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		reqW, reqH    int
		expected      int
	}{
		{"fits", 300, 400, 300, 400, 1},
		{"slightly larger doubles once", 700, 900, 612, 816, 2},
		{"wide photo", 4000, 3000, 612, 459, 4},
		{"exact multiple", 240, 320, 60, 80, 4},
		{"very large", 8000, 8000, 100, 100, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SampleSize(tt.width, tt.height, tt.reqW, tt.reqH))
		})
	}
}
