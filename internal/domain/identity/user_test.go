package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates pending user with hashed password", func(t *testing.T) {
		user, err := NewUser("alice.smith", "s3cretpass", RoleCustomerUser)
		require.NoError(t, err)

		assert.Equal(t, UserStatusPending, user.Status)
		assert.NotEqual(t, "s3cretpass", user.PasswordHash)
		assert.True(t, user.VerifyPassword("s3cretpass"))
		assert.False(t, user.VerifyPassword("wrong"))
		assert.Len(t, user.GetDomainEvents(), 1)
	})

	t.Run("normalizes username", func(t *testing.T) {
		user, err := NewUser("  Alice.Smith ", "s3cretpass", RoleCustomerUser)
		require.NoError(t, err)
		assert.Equal(t, "alice.smith", user.Username)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("alice", "short", RoleCustomerUser)
		assert.Error(t, err)
	})

	t.Run("rejects invalid username", func(t *testing.T) {
		_, err := NewUser("ab", "s3cretpass", RoleCustomerUser)
		assert.Error(t, err)
		_, err = NewUser("has space", "s3cretpass", RoleCustomerUser)
		assert.Error(t, err)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewUser("alice", "s3cretpass", UserRole("superhero"))
		assert.Error(t, err)
	})
}

func TestUserScoping(t *testing.T) {
	t.Run("customer user scoped to node", func(t *testing.T) {
		user, err := NewActiveUser("buyer", "s3cretpass", RoleCustomerUser)
		require.NoError(t, err)

		nodeID := uuid.New()
		require.NoError(t, user.ScopeToNode(nodeID))
		assert.Equal(t, nodeID, *user.NodeID)
		assert.Nil(t, user.SupplierID)

		assert.Error(t, user.ScopeToSupplier(uuid.New()))
	})

	t.Run("supplier user scoped to supplier", func(t *testing.T) {
		user, err := NewActiveUser("vendor", "s3cretpass", RoleSupplierUser)
		require.NoError(t, err)

		supplierID := uuid.New()
		require.NoError(t, user.ScopeToSupplier(supplierID))
		assert.Equal(t, supplierID, *user.SupplierID)

		assert.Error(t, user.ScopeToNode(uuid.New()))
	})
}

func TestUserPassword(t *testing.T) {
	t.Run("change requires current password", func(t *testing.T) {
		user, err := NewActiveUser("alice", "s3cretpass", RoleCustomerUser)
		require.NoError(t, err)

		assert.Error(t, user.ChangePassword("wrong", "newpassword"))
		require.NoError(t, user.ChangePassword("s3cretpass", "newpassword"))
		assert.True(t, user.VerifyPassword("newpassword"))
	})

	t.Run("admin reset skips current password", func(t *testing.T) {
		user, err := NewActiveUser("alice", "s3cretpass", RoleCustomerUser)
		require.NoError(t, err)

		require.NoError(t, user.SetPassword("resetpassword"))
		assert.True(t, user.VerifyPassword("resetpassword"))
	})
}

func TestUserLockout(t *testing.T) {
	t.Run("locks after max failed attempts", func(t *testing.T) {
		user, err := NewActiveUser("alice", "s3cretpass", RoleCustomerUser)
		require.NoError(t, err)

		for i := 0; i < MaxFailedAttempts; i++ {
			user.RecordFailedAttempt()
		}

		assert.Equal(t, UserStatusLocked, user.Status)
		assert.NotNil(t, user.LockedUntil)
		assert.False(t, user.CanLogin())
	})

	t.Run("lockout expires", func(t *testing.T) {
		user, err := NewActiveUser("alice", "s3cretpass", RoleCustomerUser)
		require.NoError(t, err)

		past := time.Now().Add(-time.Minute)
		user.Status = UserStatusLocked
		user.LockedUntil = &past

		assert.True(t, user.CanLogin())
	})

	t.Run("successful login clears failures", func(t *testing.T) {
		user, err := NewActiveUser("alice", "s3cretpass", RoleCustomerUser)
		require.NoError(t, err)

		user.RecordFailedAttempt()
		user.RecordFailedAttempt()
		user.RecordLogin("203.0.113.9")

		assert.Equal(t, 0, user.FailedAttempts)
		assert.Equal(t, "203.0.113.9", user.LastLoginIP)
	})

	t.Run("unlock restores active status", func(t *testing.T) {
		user, err := NewActiveUser("alice", "s3cretpass", RoleCustomerUser)
		require.NoError(t, err)

		for i := 0; i < MaxFailedAttempts; i++ {
			user.RecordFailedAttempt()
		}
		require.NoError(t, user.Unlock())
		assert.Equal(t, UserStatusActive, user.Status)
	})
}

func TestUserStatus(t *testing.T) {
	user, err := NewUser("alice", "s3cretpass", RoleCustomerUser)
	require.NoError(t, err)

	assert.False(t, user.CanLogin())
	require.NoError(t, user.Activate())
	assert.True(t, user.CanLogin())
	assert.Error(t, user.Activate())

	require.NoError(t, user.Deactivate())
	assert.False(t, user.CanLogin())
	assert.Error(t, user.Deactivate())
}
