package hotels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ViacheslavGolubkov/hotelscout/internal/hotels/types"
)

func TestParseLandmarkDistance(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{name: "point decimal", input: "1.2 km", want: 1.2},
		{name: "comma decimal", input: "1,2 km", want: 1.2},
		{name: "integer", input: "3 miles", want: 3},
		{name: "first token wins", input: "0.5 km from 2 landmarks", want: 0.5},
		{name: "leading text", input: "about 4,7 km", want: 4.7},
		{name: "no number", input: "city center", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLandmarkDistance(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrInvalidResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
