package obituary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrub(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "strips markup",
			in:   "<p>John was a <b>kind</b> man.</p>",
			want: "John was a kind man.",
		},
		{
			name: "removes email addresses",
			in:   "Condolences may be sent to family@example.com for the service.",
			want: "Condolences may be sent to  for the service.",
		},
		{
			name: "removes phone numbers",
			in:   "Call the funeral home at (555) 123-4567 to attend.",
			want: "Call the funeral home at  to attend.",
		},
		{
			name: "collapses blank line runs",
			in:   "First paragraph.\n\n\n\nSecond paragraph.",
			want: "First paragraph.\n\nSecond paragraph.",
		},
		{
			name: "keeps a single blank line",
			in:   "First.\n\nSecond.",
			want: "First.\n\nSecond.",
		},
		{
			name: "trims surrounding whitespace",
			in:   "\n\n  John lived well.  \n",
			want: "John lived well.",
		},
		{
			name: "plain years survive",
			in:   "Born in 1942, he served until 1968.",
			want: "Born in 1942, he served until 1968.",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Scrub(tc.in))
		})
	}
}
