package official

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextFolio(t *testing.T) {
	tests := []struct {
		name  string
		last  string
		floor int64
		want  string
	}{
		{"empty table starts at floor", "", 1, "0000001"},
		{"increments last", "0000041", 1, "0000042"},
		{"unpadded last", "41", 1, "0000042"},
		{"non-numeric falls back to floor", "LEGACY-7", 100, "0000100"},
		{"floor beyond last is ignored when last parses", "0000200", 100, "0000201"},
		{"width overflow keeps digits", "9999999", 1, "10000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextFolio(tt.last, tt.floor))
		})
	}
}
