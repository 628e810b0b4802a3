package ports

// PasswordHasher is the hashing collaborator. The hash output is opaque to
// the core: it is stored and compared, never inverted or inspected.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(hashed, plaintext string) error
}
