package userservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanEditUser(t *testing.T) {
	alice := &User{ID: 1, Username: "alice"}
	bob := &User{ID: 2, Username: "bob"}
	staff := &User{ID: 3, Username: "root", IsStaff: true}

	testCases := []struct {
		name   string
		actor  *User
		target *User
		want   bool
	}{
		{name: "self", actor: alice, target: alice, want: true},
		{name: "other user", actor: bob, target: alice, want: false},
		{name: "staff on other user", actor: staff, target: alice, want: true},
		{name: "staff on self", actor: staff, target: staff, want: true},
		{name: "anonymous", actor: &AnonymousUser, target: alice, want: false},
		{name: "nil actor", actor: nil, target: alice, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanEditUser(tc.actor, tc.target))
		})
	}
}

func TestHasPermission(t *testing.T) {
	u := &User{ID: 1, Permissions: Permissions{PermissionWriteBlog}}
	assert.True(t, u.HasPermission(PermissionWriteBlog))
	assert.False(t, u.HasPermission(Permission("user:admin")))

	anon := &AnonymousUser
	assert.False(t, anon.HasPermission(PermissionWriteBlog))
}
