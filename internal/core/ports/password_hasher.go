package ports

// PasswordHasher is a one-way adaptive hash over plaintext passwords.
type PasswordHasher interface {
	// Hash produces a salted hash string. Two calls on the same plaintext
	// yield different strings; both verify.
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches hash. A malformed hash is a
	// mismatch, never an error.
	Verify(plaintext, hash string) bool
}
