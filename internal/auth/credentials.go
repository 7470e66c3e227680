package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2 parameters for password hashing
const (
	// Memory usage in KB
	ArgonMemory = 32 * 1024
	// Number of iterations (time parameter)
	ArgonTime = 1
	// Number of threads
	ArgonThreads = 4
	// Key length in bytes
	ArgonKeyLen = 32
	// Salt length in bytes
	saltLen = 16
)

// Credentials holds the single account allowed to log in. The password is kept only
// as a salted argon2id hash.
type Credentials struct {
	username string
	salt     []byte
	hash     []byte
}

// NewCredentials hashes password with a fresh random salt
func NewCredentials(username, password string) (*Credentials, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	return &Credentials{
		username: username,
		salt:     salt,
		hash:     hashPassword(password, salt),
	}, nil
}

// Verify compares the supplied pair in constant time. Surrounding whitespace is ignored.
func (c *Credentials) Verify(username, password string) error {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.username))
	passOK := subtle.ConstantTimeCompare(hashPassword(password, c.salt), c.hash)

	if userOK&passOK != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

func hashPassword(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, ArgonTime, ArgonMemory, ArgonThreads, ArgonKeyLen)
}
