package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const adminEmail = "admin@marketplace.local"

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		name      string
		principal Principal
		want      bool
	}{
		{"exact match", Principal{ID: 9, Email: "admin@marketplace.local", Authenticated: true}, true},
		{"case insensitive match", Principal{ID: 9, Email: "Admin@Marketplace.LOCAL", Authenticated: true}, true},
		{"different email", Principal{ID: 9, Email: "user@example.com", Authenticated: true}, false},
		{"unauthenticated with admin email", Principal{Email: "admin@marketplace.local"}, false},
		{"anonymous", Principal{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.principal.IsAdmin(adminEmail))
		})
	}
}

func TestIsAdminEmptyConfig(t *testing.T) {
	p := Principal{ID: 1, Email: "", Authenticated: true}
	assert.False(t, p.IsAdmin(""))
}

func TestComputeOwner(t *testing.T) {
	owner := Principal{ID: 1, Email: "a@example.com", Authenticated: true}

	caps := Compute(owner, 1, false, false)
	assert.True(t, caps.CanEdit)
	assert.True(t, caps.CanDelete)
	// The owner can never follow or unfollow their own listing
	assert.False(t, caps.CanFollow)
	assert.False(t, caps.CanUnfollow)

	caps = Compute(owner, 1, false, true)
	assert.False(t, caps.CanFollow)
	assert.False(t, caps.CanUnfollow)
}

func TestComputeNonOwner(t *testing.T) {
	viewer := Principal{ID: 2, Email: "b@example.com", Authenticated: true}

	caps := Compute(viewer, 1, false, false)
	assert.False(t, caps.CanEdit)
	assert.False(t, caps.CanDelete)
	assert.True(t, caps.CanFollow)
	assert.False(t, caps.CanUnfollow)

	caps = Compute(viewer, 1, false, true)
	assert.False(t, caps.CanFollow)
	assert.True(t, caps.CanUnfollow)
}

func TestComputeAdmin(t *testing.T) {
	admin := Principal{ID: 9, Email: adminEmail, Authenticated: true}

	// Admin gets edit/delete on every resource regardless of owner,
	// and never sees follow affordances.
	for _, ownerID := range []uint{1, 2, 9} {
		for _, following := range []bool{false, true} {
			caps := Compute(admin, ownerID, true, following)
			assert.True(t, caps.CanEdit)
			assert.True(t, caps.CanDelete)
			assert.False(t, caps.CanFollow)
			assert.False(t, caps.CanUnfollow)
		}
	}
}

func TestComputeAnonymous(t *testing.T) {
	caps := Compute(Principal{}, 1, false, false)
	assert.Equal(t, Capabilities{}, caps)
}

func TestCanMutate(t *testing.T) {
	owner := Principal{ID: 1, Authenticated: true}
	other := Principal{ID: 2, Authenticated: true}

	assert.True(t, CanMutate(owner, 1, false))
	assert.False(t, CanMutate(other, 1, false))
	assert.True(t, CanMutate(other, 1, true))
	assert.False(t, CanMutate(Principal{}, 1, false))
}
