// Package identifier converts between the storage-native user identifier
// (a MongoDB ObjectID) and its canonical wire form (24-character lowercase
// hex). It is the single validity predicate for identifiers; callers must
// not re-implement ad hoc hex checks.
package identifier

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalid reports a candidate string that is not a well-formed identifier.
var ErrInvalid = errors.New("invalid identifier")

// ToWire returns the canonical wire form of a storage identifier.
// Total and deterministic: FromWire(ToWire(x)) == x for every x.
func ToWire(id primitive.ObjectID) string {
	return id.Hex()
}

// FromWire parses a wire-form identifier back into its storage-native form.
// Wrong length or non-hex input fails with ErrInvalid.
func FromWire(candidate string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(candidate)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalid, candidate)
	}
	return id, nil
}

// IsWire reports whether candidate is a well-formed wire identifier.
func IsWire(candidate string) bool {
	return primitive.IsValidObjectID(candidate)
}
