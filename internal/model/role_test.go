package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdmin},
		{"seller", RoleSeller},
		{"user", RoleUser},
		{"Admin", RoleAdmin},
		{"  USER  ", RoleUser},
	}
	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		require.NoError(t, err, "in=%q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestParseRoleRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "root", "superuser", "adminx"} {
		_, err := ParseRole(in)
		assert.Error(t, err, "in=%q", in)
	}
}

func TestRoleIsAdmin(t *testing.T) {
	assert.True(t, RoleAdmin.IsAdmin())
	assert.False(t, RoleSeller.IsAdmin())
	assert.False(t, RoleUser.IsAdmin())
}
