package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{in: "Apple", want: "apple"},
		{in: "  Sony Ericsson  ", want: "sony-ericsson"},
		{in: "Škoda & Co.", want: "skoda-co"},
		{in: "iPhone 15 Pro Max", want: "iphone-15-pro-max"},
		{in: "Crème Brûlée", want: "creme-brulee"},
		{in: "---", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.in))
		})
	}
}
