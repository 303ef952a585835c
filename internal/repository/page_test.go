package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErr "github.com/standard-backend/userapi/pkg/errors"
)

func TestPageNormalized(t *testing.T) {
	p := Page{}.Normalized()
	assert.Equal(t, Page{Number: 1, Size: DefaultPageSize, Sort: "name"}, p)
	assert.Equal(t, 0, p.Offset())

	p = Page{Number: 3, Size: 500, Sort: "email", Desc: true}.Normalized()
	assert.Equal(t, MaxPageSize, p.Size)
	assert.Equal(t, 200, p.Offset())
	assert.True(t, p.Desc)
}

func TestParseSort(t *testing.T) {
	cases := []struct {
		in     string
		column string
		desc   bool
	}{
		{"", "name", false},
		{"name", "name", false},
		{"email,desc", "email", true},
		{" ID , ASC ", "id", false},
		{"created_at,DESC", "created_at", true},
	}
	for _, tc := range cases {
		col, desc, err := ParseSort(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.column, col, tc.in)
		assert.Equal(t, tc.desc, desc, tc.in)
	}

	_, _, err := ParseSort("password_hash")
	assert.True(t, appErr.IsCode(err, appErr.CodeInvalid))

	_, _, err = ParseSort("name,sideways")
	assert.True(t, appErr.IsCode(err, appErr.CodeInvalid))
}
