package secret

// SecretStore holds database host passwords outside the host records.
// Backends: the panel's SQLite database, the macOS Keychain, or memory for tests.
type SecretStore interface {
	// Set stores a secret value under the given key.
	Set(key string, value []byte) error

	// Get retrieves the secret value for the given key.
	// Returns nil and no error if the key does not exist.
	Get(key string) ([]byte, error)

	// Delete removes the secret for the given key.
	Delete(key string) error
}
