package permissions

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v2"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
)

// Action - type int
type Action int

// Role - type int
type Role int

// A list of actions that can be performed
const (
	// Read-only
	Read Action = iota
	// Write
	Write
)

// Corresponding string value for an Action
var actionStr = []string{"read", "write"}

// String function will return the english name of the Action
func (a Action) String() string {
	return actionStr[a]
}

// ActionFrom returns the Action value corresponding to the given string. It will
// return -1 if not found.
func ActionFrom(str string) Action {
	for i, s := range actionStr {
		if s == str {
			return Action(i)
		}
	}
	return -1
}

// A list of roles
const (
	// Admin manages user accounts.
	Admin Role = iota
	// Member is any authenticated user.
	Member
)

// Corresponding string value for a Role
var roleStr = []string{"admin", "member"}

// String function will return the english name of the Role
func (r Role) String() string {
	return roleStr[r]
}

// Protected resources.
const (
	// ResourceAccounts groups the user management operations.
	ResourceAccounts = "accounts"
	// ResourceProfile is the requesting user's own account.
	ResourceProfile  = "profile"
	ResourceThreads  = "threads"
	ResourceComments = "comments"
	ResourceLikes    = "likes"
)

// casbin model: a role is granted an action on a resource.
const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// defaultPolicy lists the (role, resource, action) tuples installed at startup.
var defaultPolicy = [][]string{
	{"admin", ResourceAccounts, "read"},
	{"admin", ResourceAccounts, "write"},
}

func init() {
	for _, role := range roleStr {
		for _, res := range []string{ResourceProfile, ResourceThreads, ResourceComments, ResourceLikes} {
			defaultPolicy = append(defaultPolicy,
				[]string{role, res, "read"},
				[]string{role, res, "write"},
			)
		}
	}
}

// Identity is the authenticated user acting in a request. It is built once by
// the authentication layer and passed along explicitly.
type Identity struct {
	UserID   uint
	Username string
	Admin    bool
}

// IsAdmin returns true if the identity was authenticated as an admin.
func IsAdmin(id Identity) bool {
	return id.Admin
}

// RoleOf returns the role an identity acts with.
func RoleOf(id Identity) Role {
	if IsAdmin(id) {
		return Admin
	}
	return Member
}

// CanAccessOwned returns true if the acting user owns the resource.
// Admins get no bypass here.
func CanAccessOwned(actingUserID, ownerID uint) bool {
	return actingUserID == ownerID
}

// Permissions decides role based access to resources using casbin.
type Permissions struct {
	enforcer *casbin.Enforcer
}

// New creates a Permissions object whose policy is stored in the given
// database. The default policy is installed if missing.
func New(db *gorm.DB) (*Permissions, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	return newWithEnforcer(enforcer)
}

// NewInMemory creates a Permissions object with a non persistent policy.
func NewInMemory() (*Permissions, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	return newWithEnforcer(enforcer)
}

func newWithEnforcer(e *casbin.Enforcer) (*Permissions, error) {
	p := &Permissions{enforcer: e}
	if err := p.installDefaultPolicy(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Permissions) installDefaultPolicy() error {
	for _, rule := range defaultPolicy {
		if p.enforcer.HasPolicy(rule[0], rule[1], rule[2]) {
			continue
		}
		if _, err := p.enforcer.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
			return err
		}
	}
	return nil
}

// IsAuthorized checks if the identity's role has the permission to perform an
// action on a resource.
func (p *Permissions) IsAuthorized(id Identity, resource string, action Action) (bool, *gz.ErrMsg) {
	ok, err := p.enforcer.Enforce(RoleOf(id).String(), resource, action.String())
	if err != nil {
		return false, gz.NewErrorMessageWithBase(gz.ErrorUnexpected, err)
	}
	if !ok {
		return false, gz.NewErrorMessage(gz.ErrorUnauthorized)
	}
	return true, nil
}
