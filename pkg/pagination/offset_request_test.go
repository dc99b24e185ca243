package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffsetRequest_Validate(t *testing.T) {
	cases := []struct {
		name     string
		in       OffsetRequest
		wantPage int
		wantSize int
	}{
		{"zero value means first page, full set", OffsetRequest{}, 1, 0},
		{"explicit zero size stays unbounded", OffsetRequest{Page: 2, Size: 0}, 2, 0},
		{"negative page coerced to one", OffsetRequest{Page: -3, Size: 5}, 1, 5},
		{"negative size coerced to unbounded", OffsetRequest{Page: 1, Size: -1}, 1, 0},
		{"oversized request capped", OffsetRequest{Page: 1, Size: PageMaxSize + 1}, 1, PageMaxSize},
		{"in-range values untouched", OffsetRequest{Page: 3, Size: 20}, 3, 20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.Validate()
			assert.Equal(t, tc.wantPage, tc.in.Page)
			assert.Equal(t, tc.wantSize, tc.in.Size)
		})
	}
}
