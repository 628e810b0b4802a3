package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the permission role assigned to a user. It is a closed set with
// no privilege ordering encoded here; authorization decisions belong to the
// API layer.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleProjectLead Role = "project_lead"
	RoleMember      Role = "member"
	RoleIntern      Role = "intern"
	RoleViewer      Role = "viewer"

	// DefaultRole is assigned when a registration payload omits the role.
	DefaultRole = RoleIntern
)

// ParseRole converts a raw string into a Role, reporting whether it is one
// of the known roles.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleProjectLead, RoleMember, RoleIntern, RoleViewer:
		return Role(s), true
	}
	return "", false
}

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")

// User is the stored shape of a user record: the document as it exists in
// the users collection, identifier assigned, password already hashed.
// It is never serialised to a client directly; derive a PublicUser instead.
type User struct {
	ID             primitive.ObjectID
	FullName       string
	Email          string
	Role           Role
	IsActive       bool
	AvatarURL      *string
	HashedPassword string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
