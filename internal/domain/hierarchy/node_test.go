package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTree(t *testing.T) (group, company, location, unit *Node) {
	t.Helper()
	var err error
	group, err = NewRootNode("Acme Group", "ACME")
	require.NoError(t, err)
	company, err = NewChildNode(group, "Acme West", "ACME-W")
	require.NoError(t, err)
	location, err = NewChildNode(company, "Portland DC", "ACME-W-PDX")
	require.NoError(t, err)
	unit, err = NewChildNode(location, "Kitchen", "ACME-W-PDX-K")
	require.NoError(t, err)
	return
}

func TestNewRootNode(t *testing.T) {
	t.Run("creates group node with own path", func(t *testing.T) {
		node, err := NewRootNode("Acme Group", "ACME")
		require.NoError(t, err)

		assert.Equal(t, LevelGroup, node.Level)
		assert.Nil(t, node.ParentID)
		assert.Equal(t, "/"+node.ID.String()+"/", node.Path)
		assert.True(t, node.Active)
		assert.Len(t, node.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeNodeCreated, node.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewRootNode("", "ACME")
		assert.Error(t, err)
	})

	t.Run("rejects code with slash", func(t *testing.T) {
		_, err := NewRootNode("Acme", "ACME/1")
		assert.Error(t, err)
	})
}

func TestNewChildNode(t *testing.T) {
	t.Run("builds four level chain", func(t *testing.T) {
		group, company, location, unit := buildTree(t)

		assert.Equal(t, LevelCompany, company.Level)
		assert.Equal(t, LevelLocation, location.Level)
		assert.Equal(t, LevelBusinessUnit, unit.Level)
		assert.Equal(t, group.Path+company.ID.String()+"/", company.Path)
		assert.True(t, unit.IsDescendantOf(group))
		assert.True(t, unit.IsDescendantOf(location))
		assert.False(t, group.IsDescendantOf(unit))
	})

	t.Run("business unit cannot have children", func(t *testing.T) {
		_, _, _, unit := buildTree(t)
		_, err := NewChildNode(unit, "Too Deep", "DEEP")
		assert.Error(t, err)
	})

	t.Run("rejects inactive parent", func(t *testing.T) {
		group, err := NewRootNode("Acme", "ACME")
		require.NoError(t, err)
		require.NoError(t, group.Deactivate())

		_, err = NewChildNode(group, "Acme West", "ACME-W")
		assert.Error(t, err)
	})
}

func TestNodeMoveTo(t *testing.T) {
	t.Run("moves unit to another location", func(t *testing.T) {
		_, company, _, unit := buildTree(t)
		other, err := NewChildNode(company, "Seattle DC", "ACME-W-SEA")
		require.NoError(t, err)

		oldPath, err := unit.MoveTo(other)
		require.NoError(t, err)
		assert.NotEqual(t, oldPath, unit.Path)
		assert.Equal(t, other.Path+unit.ID.String()+"/", unit.Path)
		assert.Equal(t, other.ID, *unit.ParentID)
	})

	t.Run("rejects level mismatch", func(t *testing.T) {
		group, _, _, unit := buildTree(t)
		_, err := unit.MoveTo(group)
		assert.Error(t, err)
	})

	t.Run("rejects moving group", func(t *testing.T) {
		group, _, _, _ := buildTree(t)
		_, err := group.MoveTo(group)
		assert.Error(t, err)
	})

	t.Run("rejects move under own descendant", func(t *testing.T) {
		_, company, location, _ := buildTree(t)
		_, err := company.MoveTo(location)
		assert.Error(t, err)
	})

	t.Run("rejects move to current parent", func(t *testing.T) {
		_, _, location, unit := buildTree(t)
		_, err := unit.MoveTo(location)
		assert.Error(t, err)
	})
}

func TestNodeActivation(t *testing.T) {
	t.Run("deactivate then activate", func(t *testing.T) {
		node, err := NewRootNode("Acme", "ACME")
		require.NoError(t, err)

		require.NoError(t, node.Deactivate())
		assert.False(t, node.Active)
		assert.Error(t, node.Deactivate())

		require.NoError(t, node.Activate())
		assert.True(t, node.Active)
		assert.Error(t, node.Activate())
	})

	t.Run("only active business units can place orders", func(t *testing.T) {
		_, _, location, unit := buildTree(t)

		assert.True(t, unit.CanPlaceOrders())
		assert.False(t, location.CanPlaceOrders())

		require.NoError(t, unit.Deactivate())
		assert.False(t, unit.CanPlaceOrders())
	})
}

func TestSettingsMerged(t *testing.T) {
	t.Run("child overrides win", func(t *testing.T) {
		base := Settings{SettingCurrency: "USD", SettingTimezone: "UTC"}
		child := Settings{SettingTimezone: "America/Los_Angeles"}

		merged := child.Merged(base)
		assert.Equal(t, "USD", merged[SettingCurrency])
		assert.Equal(t, "America/Los_Angeles", merged[SettingTimezone])
	})

	t.Run("roundtrips through sql value", func(t *testing.T) {
		s := Settings{SettingCurrency: "EUR"}
		v, err := s.Value()
		require.NoError(t, err)

		var scanned Settings
		require.NoError(t, scanned.Scan(v))
		assert.Equal(t, s, scanned)
	})
}

func TestAncestorIDs(t *testing.T) {
	group, company, _, unit := buildTree(t)

	ids := unit.AncestorIDs()
	require.Len(t, ids, 3)
	assert.Equal(t, group.ID, ids[0])
	assert.Equal(t, company.ID, ids[1])

	assert.Empty(t, group.AncestorIDs())
}
