// Package auth guards the admin pages: one user whose Argon2id password hash
// lives in a secret file, and a per-process session token for the cookie.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	DefaultAuthFile = "auth.secret"
	CookieName      = "admin_token"
)

// Argon2id parameters (OWASP recommended)
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16
)

var (
	ErrNoAuthFile = errors.New("no auth file found")
	ErrFileExists = errors.New("auth file already exists")
)

// Admin holds the admin credentials and the session token handed out on
// login.
type Admin struct {
	user  string
	hash  string
	token string
}

// New builds an Admin from a username and an encoded hash.
func New(user, hash string) (*Admin, error) {
	token, err := randomHex(32)
	if err != nil {
		return nil, err
	}
	return &Admin{user: user, hash: hash, token: token}, nil
}

// Load reads the "username:hash" secret file. A missing file returns
// ErrNoAuthFile.
func Load(path string) (*Admin, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrNoAuthFile)
		}
		return nil, fmt.Errorf("failed to read auth file: %w", err)
	}

	line := strings.TrimSpace(string(data))
	user, hash, ok := strings.Cut(line, ":")
	if !ok || user == "" || hash == "" {
		return nil, fmt.Errorf("invalid auth file format (expected: username:hash)")
	}

	log.Printf("Admin login enabled (user: %s, file: %s)", user, path)
	return New(user, hash)
}

func (a *Admin) User() string { return a.user }

// Token is the session value stored in the admin cookie.
func (a *Admin) Token() string { return a.token }

// Check verifies a login attempt.
func (a *Admin) Check(user, password string) bool {
	if a == nil {
		return false
	}
	userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(a.user)) == 1
	ok, err := VerifyPassword(password, a.hash)
	if err != nil {
		log.Printf("Error verifying password: %v", err)
		return false
	}
	return userMatch && ok
}

// ValidToken reports whether a cookie value is the current session token.
func (a *Admin) ValidToken(token string) bool {
	if a == nil || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) == 1
}

// HashPassword creates an Argon2id hash of the password, encoded as
// $argon2id$v=19$m=65536,t=1,p=4$salt$hash.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argon2Memory, argon2Time, argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash)), nil
}

// VerifyPassword checks a password against an encoded Argon2id hash.
func VerifyPassword(password, hash string) (bool, error) {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		return false, fmt.Errorf("invalid hash format")
	}
	if parts[1] != "argon2id" {
		return false, fmt.Errorf("not an argon2id hash")
	}

	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, fmt.Errorf("failed to parse hash parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("failed to decode salt: %w", err)
	}
	decoded, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("failed to decode hash: %w", err)
	}

	computed := argon2.IDKey([]byte(password), salt, time, memory, uint8(threads), uint32(len(decoded)))
	return subtle.ConstantTimeCompare(decoded, computed) == 1, nil
}

// WriteFile stores username and the hashed password at path with mode 0400.
// An existing file is replaced only when overwrite is set.
func WriteFile(path, username, password string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil {
		if !overwrite {
			return fmt.Errorf("%s: %w", path, ErrFileExists)
		}
		// 0400 files cannot be truncated in place.
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove existing auth file: %w", err)
		}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	content := fmt.Sprintf("%s:%s\n", username, hash)
	if err := os.WriteFile(path, []byte(content), 0400); err != nil {
		return fmt.Errorf("failed to write auth file: %w", err)
	}
	return nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
