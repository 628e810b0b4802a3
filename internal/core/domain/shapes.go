package domain

import (
	"time"

	"github.com/teamforge/identity-service/internal/pkg/identifier"
)

// The user record crosses three boundaries, each with its own shape:
//
//	CreateUser:  untrusted registration input, carries the plaintext password
//	UpdateUser:  untrusted partial patch, every field optional
//	User:        the stored document (user.go), trusted once written
//	PublicUser:  the outbound response shape, never carries the hash
//
// Shapes are constructed from untyped payloads so forbidden keys can be
// detected and every invalid field reported in a single aggregate error.

// CreateUser is a validated registration payload. The password is still
// plaintext here; it must be hashed by the hashing collaborator before a
// stored User is built, and is never persisted or echoed back.
type CreateUser struct {
	FullName  string
	Email     string
	Role      Role
	IsActive  bool
	AvatarURL *string
	Password  string
}

// UpdateUser is a validated partial patch. Nil fields were absent from the
// payload and must not be touched when the patch is applied.
type UpdateUser struct {
	FullName  *string
	Email     *string
	Role      *Role
	IsActive  *bool
	AvatarURL *string
}

// PublicUser is the response shape returned to API clients. The identifier
// is in wire form under "id"; hashed_password does not exist here at all.
type PublicUser struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var createForbidden = []string{"id", "_id", "hashed_password", "created_at", "updated_at"}
var updateForbidden = []string{"password", "id", "_id", "hashed_password", "created_at", "updated_at"}

// NewCreateUser builds a CreateUser from an untyped field mapping, applying
// every field rule and aggregating all failures into one ValidationErrors.
func NewCreateUser(payload map[string]any) (CreateUser, error) {
	var l errList
	forbidKeys(&l, payload, createForbidden)

	c := CreateUser{Role: DefaultRole, IsActive: true}

	if !hasField(payload, "full_name") {
		l.add("full_name", KindMissingField, "is required")
	} else if name, ok := takeString(&l, payload, "full_name"); ok {
		if err := CheckNameLength(name); err != nil {
			l.addErr(err)
		} else {
			c.FullName = name
		}
	}

	if !hasField(payload, "email") {
		l.add("email", KindMissingField, "is required")
	} else if raw, ok := takeString(&l, payload, "email"); ok {
		email := NormalizeEmail(raw)
		if err := CheckEmailFormat(email); err != nil {
			l.addErr(err)
		} else {
			c.Email = email
		}
	}

	if !hasField(payload, "password") {
		l.add("password", KindMissingField, "is required")
	} else if pw, ok := takeString(&l, payload, "password"); ok {
		if err := checkPasswordLength(pw); err != nil {
			l.addErr(err)
		} else if err := CheckPasswordStrength(pw); err != nil {
			l.addErr(err)
		} else {
			c.Password = pw
		}
	}

	if hasField(payload, "role") {
		if s, ok := takeString(&l, payload, "role"); ok {
			if r, known := ParseRole(s); known {
				c.Role = r
			} else {
				l.add("role", KindInvalidFormat, "unknown role "+s)
			}
		}
	}

	if hasField(payload, "is_active") {
		if b, ok := takeBool(&l, payload, "is_active"); ok {
			c.IsActive = b
		}
	}

	if hasField(payload, "avatar_url") {
		if s, ok := takeString(&l, payload, "avatar_url"); ok {
			c.AvatarURL = &s
		}
	}

	if err := l.err(); err != nil {
		return CreateUser{}, err
	}
	return c, nil
}

// NewUpdateUser builds an UpdateUser from an untyped field mapping. Present
// fields are validated with the same rules as registration; absent fields
// stay nil. The password cannot be changed through this shape.
func NewUpdateUser(payload map[string]any) (UpdateUser, error) {
	var l errList
	forbidKeys(&l, payload, updateForbidden)

	var u UpdateUser

	if hasField(payload, "full_name") {
		if name, ok := takeString(&l, payload, "full_name"); ok {
			if err := CheckNameLength(name); err != nil {
				l.addErr(err)
			} else {
				u.FullName = &name
			}
		}
	}

	if hasField(payload, "email") {
		if raw, ok := takeString(&l, payload, "email"); ok {
			email := NormalizeEmail(raw)
			if err := CheckEmailFormat(email); err != nil {
				l.addErr(err)
			} else {
				u.Email = &email
			}
		}
	}

	if hasField(payload, "role") {
		if s, ok := takeString(&l, payload, "role"); ok {
			if r, known := ParseRole(s); known {
				u.Role = &r
			} else {
				l.add("role", KindInvalidFormat, "unknown role "+s)
			}
		}
	}

	if hasField(payload, "is_active") {
		if b, ok := takeBool(&l, payload, "is_active"); ok {
			u.IsActive = &b
		}
	}

	if hasField(payload, "avatar_url") {
		if s, ok := takeString(&l, payload, "avatar_url"); ok {
			u.AvatarURL = &s
		}
	}

	if err := l.err(); err != nil {
		return UpdateUser{}, err
	}
	return u, nil
}

// NewUser builds the stored shape from a validated CreateUser and the hash
// produced by the hashing collaborator. The identifier stays zero until the
// repository assigns one on insert. now is injected so construction is
// deterministic under test.
func NewUser(c CreateUser, hashedPassword string, now time.Time) User {
	now = now.UTC()
	return User{
		FullName:       c.FullName,
		Email:          c.Email,
		Role:           c.Role,
		IsActive:       c.IsActive,
		AvatarURL:      c.AvatarURL,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Apply returns a copy of u with the patch's present fields overwritten.
// Absent fields are left untouched; a patch never clears a field
// implicitly. UpdatedAt is refreshed unconditionally, even for an empty
// patch.
func (u User) Apply(patch UpdateUser, now time.Time) User {
	next := u
	if patch.FullName != nil {
		next.FullName = *patch.FullName
	}
	if patch.Email != nil {
		next.Email = *patch.Email
	}
	if patch.Role != nil {
		next.Role = *patch.Role
	}
	if patch.IsActive != nil {
		next.IsActive = *patch.IsActive
	}
	if patch.AvatarURL != nil {
		next.AvatarURL = patch.AvatarURL
	}
	next.UpdatedAt = now.UTC()
	return next
}

// Public derives the outbound shape: hashed_password is dropped and the
// identifier converted to wire form. Total for any correctly stored User.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        identifier.ToWire(u.ID),
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewPublicUser rebuilds a PublicUser from an untyped field mapping, e.g. a
// cached profile document. Because this shape crosses the outbound trust
// boundary the identifier must already be wire-form and hashed_password must
// not appear; either condition failing is a construction error.
func NewPublicUser(payload map[string]any) (PublicUser, error) {
	var l errList
	forbidKeys(&l, payload, []string{"hashed_password", "password"})

	var p PublicUser

	if !hasField(payload, "id") {
		l.add("id", KindMissingField, "is required")
	} else if s, ok := takeString(&l, payload, "id"); ok {
		if !identifier.IsWire(s) {
			l.add("id", KindInvalidIdentifier, "not a wire-form identifier")
		} else {
			p.ID = s
		}
	}

	if !hasField(payload, "full_name") {
		l.add("full_name", KindMissingField, "is required")
	} else if s, ok := takeString(&l, payload, "full_name"); ok {
		p.FullName = s
	}

	if !hasField(payload, "email") {
		l.add("email", KindMissingField, "is required")
	} else if s, ok := takeString(&l, payload, "email"); ok {
		p.Email = s
	}

	if !hasField(payload, "role") {
		l.add("role", KindMissingField, "is required")
	} else if s, ok := takeString(&l, payload, "role"); ok {
		if r, known := ParseRole(s); known {
			p.Role = r
		} else {
			l.add("role", KindInvalidFormat, "unknown role "+s)
		}
	}

	if !hasField(payload, "is_active") {
		l.add("is_active", KindMissingField, "is required")
	} else if b, ok := takeBool(&l, payload, "is_active"); ok {
		p.IsActive = b
	}

	if hasField(payload, "avatar_url") {
		if s, ok := takeString(&l, payload, "avatar_url"); ok {
			p.AvatarURL = &s
		}
	}

	for _, f := range []struct {
		name string
		dst  *time.Time
	}{
		{"created_at", &p.CreatedAt},
		{"updated_at", &p.UpdatedAt},
	} {
		if !hasField(payload, f.name) {
			l.add(f.name, KindMissingField, "is required")
		} else if t, ok := takeTime(&l, payload, f.name); ok {
			*f.dst = t
		}
	}

	if err := l.err(); err != nil {
		return PublicUser{}, err
	}
	return p, nil
}

// --- untyped payload helpers ---

// hasField reports key presence with a non-null value; JSON null counts as
// absent.
func hasField(payload map[string]any, name string) bool {
	v, ok := payload[name]
	return ok && v != nil
}

func forbidKeys(l *errList, payload map[string]any, forbidden []string) {
	for _, name := range forbidden {
		if _, ok := payload[name]; ok {
			l.add(name, KindForbiddenField, "must not be supplied")
		}
	}
}

func takeString(l *errList, payload map[string]any, name string) (string, bool) {
	s, ok := payload[name].(string)
	if !ok {
		l.add(name, KindInvalidFormat, "must be a string")
		return "", false
	}
	return s, true
}

func takeBool(l *errList, payload map[string]any, name string) (bool, bool) {
	b, ok := payload[name].(bool)
	if !ok {
		l.add(name, KindInvalidFormat, "must be a boolean")
		return false, false
	}
	return b, true
}

// takeTime accepts either a time.Time (in-process payloads) or an RFC 3339
// string (JSON-decoded payloads).
func takeTime(l *errList, payload map[string]any, name string) (time.Time, bool) {
	switch v := payload[name].(type) {
	case time.Time:
		return v.UTC(), true
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			l.add(name, KindInvalidFormat, "must be an RFC 3339 timestamp")
			return time.Time{}, false
		}
		return t.UTC(), true
	default:
		l.add(name, KindInvalidFormat, "must be a timestamp")
		return time.Time{}, false
	}
}
