package period

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusDraft, StatusApproved, true},
		{StatusApproved, StatusPaid, true},
		{StatusDraft, StatusPaid, false},
		{StatusApproved, StatusDraft, false},
		{StatusPaid, StatusApproved, false},
		{StatusPaid, StatusDraft, false},
		{StatusDraft, StatusDraft, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ValidTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}
