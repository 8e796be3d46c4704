package hierarchy

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/shared"
)

// NodeLevel represents the level of a node in the customer hierarchy
type NodeLevel string

const (
	LevelGroup        NodeLevel = "GROUP"
	LevelCompany      NodeLevel = "COMPANY"
	LevelLocation     NodeLevel = "LOCATION"
	LevelBusinessUnit NodeLevel = "BUSINESS_UNIT"
)

// IsValid checks if the level is a valid NodeLevel
func (l NodeLevel) IsValid() bool {
	switch l {
	case LevelGroup, LevelCompany, LevelLocation, LevelBusinessUnit:
		return true
	}
	return false
}

// String returns the string representation of NodeLevel
func (l NodeLevel) String() string {
	return string(l)
}

// Depth returns the zero-based depth of the level in the tree
func (l NodeLevel) Depth() int {
	switch l {
	case LevelGroup:
		return 0
	case LevelCompany:
		return 1
	case LevelLocation:
		return 2
	case LevelBusinessUnit:
		return 3
	}
	return -1
}

// ChildLevel returns the level directly below this one.
// Business units are leaves and have no child level.
func (l NodeLevel) ChildLevel() (NodeLevel, bool) {
	switch l {
	case LevelGroup:
		return LevelCompany, true
	case LevelCompany:
		return LevelLocation, true
	case LevelLocation:
		return LevelBusinessUnit, true
	}
	return "", false
}

// Settings holds node-level configuration overrides. A key absent from a
// node's settings is inherited from the nearest ancestor that defines it.
type Settings map[string]string

// Well-known settings keys
const (
	SettingCurrency          = "currency"
	SettingTimezone          = "timezone"
	SettingPaymentTermsDays  = "payment_terms_days"
	SettingNotificationEmail = "notification_email"
	SettingDeliveryWindow    = "delivery_window"
)

// Value implements driver.Valuer for JSON storage
func (s Settings) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (s *Settings) Scan(value any) error {
	if value == nil {
		*s = Settings{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported settings type %T", value)
	}
	if len(data) == 0 {
		*s = Settings{}
		return nil
	}
	return json.Unmarshal(data, s)
}

// Merged returns a copy of base with this node's overrides applied on top
func (s Settings) Merged(base Settings) Settings {
	merged := make(Settings, len(base)+len(s))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range s {
		merged[k] = v
	}
	return merged
}

// Node represents one node in the four-level customer hierarchy:
// group, company, location, business unit. Orders are always placed at
// the business unit level; billing rolls up through the ancestors.
//
// Path is a materialized path of ancestor IDs including the node itself,
// e.g. "/g-id/c-id/l-id/". It makes subtree queries a prefix match.
type Node struct {
	shared.BaseAggregateRoot
	Name     string     `gorm:"not null;size:200"`
	Code     string     `gorm:"not null;size:50;uniqueIndex"`
	Level    NodeLevel  `gorm:"not null;size:20;index"`
	ParentID *uuid.UUID `gorm:"type:uuid;index"`
	Path     string     `gorm:"not null;size:600;index"`
	Active   bool       `gorm:"not null;default:true"`
	Settings Settings   `gorm:"type:jsonb"`

	ExternalRef string `gorm:"size:100"`
	Remark      string `gorm:"size:500"`
}

// TableName returns the database table name
func (Node) TableName() string {
	return "hierarchy_nodes"
}

// NewRootNode creates a new group-level node at the top of a hierarchy
func NewRootNode(name, code string) (*Node, error) {
	if err := validateNameCode(name, code); err != nil {
		return nil, err
	}

	node := &Node{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Code:              code,
		Level:             LevelGroup,
		Active:            true,
		Settings:          Settings{},
	}
	node.Path = "/" + node.ID.String() + "/"

	node.AddDomainEvent(NewNodeCreatedEvent(node))

	return node, nil
}

// NewChildNode creates a node one level below the given parent
func NewChildNode(parent *Node, name, code string) (*Node, error) {
	if parent == nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "Parent node is required")
	}
	if !parent.Active {
		return nil, shared.ErrHierarchyInactive
	}
	childLevel, ok := parent.Level.ChildLevel()
	if !ok {
		return nil, shared.NewDomainError("INVALID_LEVEL", "Business units cannot have children")
	}
	if err := validateNameCode(name, code); err != nil {
		return nil, err
	}

	node := &Node{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Code:              code,
		Level:             childLevel,
		ParentID:          &parent.ID,
		Active:            true,
		Settings:          Settings{},
	}
	node.Path = parent.Path + node.ID.String() + "/"

	node.AddDomainEvent(NewNodeCreatedEvent(node))

	return node, nil
}

func validateNameCode(name, code string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Node name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Node name cannot exceed 200 characters")
	}
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Node code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Node code cannot exceed 50 characters")
	}
	if strings.ContainsAny(code, "/ ") {
		return shared.NewDomainError("INVALID_CODE", "Node code cannot contain slashes or spaces")
	}
	return nil
}

// Rename updates the node display name
func (n *Node) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Node name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Node name cannot exceed 200 characters")
	}

	n.Name = name
	n.UpdatedAt = time.Now()
	n.AddDomainEvent(NewNodeUpdatedEvent(n))

	return nil
}

// UpdateSettings replaces the node's settings overrides
func (n *Node) UpdateSettings(settings Settings) {
	if settings == nil {
		settings = Settings{}
	}
	n.Settings = settings
	n.UpdatedAt = time.Now()
	n.AddDomainEvent(NewNodeUpdatedEvent(n))
}

// SetExternalRef sets the external system reference for this node
func (n *Node) SetExternalRef(ref string) {
	n.ExternalRef = ref
	n.UpdatedAt = time.Now()
}

// SetRemark sets the remark for this node
func (n *Node) SetRemark(remark string) {
	n.Remark = remark
	n.UpdatedAt = time.Now()
}

// IsDescendantOf returns true if this node sits below other in the tree
func (n *Node) IsDescendantOf(other *Node) bool {
	if other == nil || n.ID == other.ID {
		return false
	}
	return strings.HasPrefix(n.Path, other.Path)
}

// MoveTo reparents the node under a new parent at the appropriate level.
// The caller must rewrite descendant paths via the repository afterwards;
// the returned old path is the prefix to replace.
func (n *Node) MoveTo(newParent *Node) (oldPath string, err error) {
	if n.Level == LevelGroup {
		return "", shared.NewDomainError("INVALID_MOVE", "Group nodes cannot be moved")
	}
	if newParent == nil {
		return "", shared.NewDomainError("INVALID_PARENT", "Parent node is required")
	}
	if !newParent.Active {
		return "", shared.ErrHierarchyInactive
	}
	expectedChild, ok := newParent.Level.ChildLevel()
	if !ok || expectedChild != n.Level {
		return "", shared.NewDomainError("INVALID_MOVE",
			fmt.Sprintf("A %s node cannot be placed under a %s node", n.Level, newParent.Level))
	}
	if newParent.IsDescendantOf(n) {
		return "", shared.NewDomainError("INVALID_MOVE", "Cannot move a node under its own descendant")
	}
	if n.ParentID != nil && *n.ParentID == newParent.ID {
		return "", shared.NewDomainError("INVALID_MOVE", "Node is already under this parent")
	}

	oldPath = n.Path
	n.ParentID = &newParent.ID
	n.Path = newParent.Path + n.ID.String() + "/"
	n.UpdatedAt = time.Now()
	n.AddDomainEvent(NewNodeMovedEvent(n, oldPath))

	return oldPath, nil
}

// Deactivate marks the node inactive. Ordering is blocked for inactive
// nodes and their descendants; deactivation of the subtree is handled by
// the application service using the materialized path.
func (n *Node) Deactivate() error {
	if !n.Active {
		return shared.NewDomainError("INVALID_STATE", "Node is already inactive")
	}

	n.Active = false
	n.UpdatedAt = time.Now()
	n.AddDomainEvent(NewNodeDeactivatedEvent(n))

	return nil
}

// Activate marks the node active again
func (n *Node) Activate() error {
	if n.Active {
		return shared.NewDomainError("INVALID_STATE", "Node is already active")
	}

	n.Active = true
	n.UpdatedAt = time.Now()
	n.AddDomainEvent(NewNodeActivatedEvent(n))

	return nil
}

// CanPlaceOrders returns true if orders may be placed at this node
func (n *Node) CanPlaceOrders() bool {
	return n.Active && n.Level == LevelBusinessUnit
}

// AncestorIDs returns the IDs on the node's path excluding the node itself,
// ordered root first.
func (n *Node) AncestorIDs() []uuid.UUID {
	parts := strings.Split(strings.Trim(n.Path, "/"), "/")
	if len(parts) <= 1 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(parts)-1)
	for _, p := range parts[:len(parts)-1] {
		id, err := uuid.Parse(p)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
