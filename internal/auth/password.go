package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// bcryptPrefix marks digests produced by the upgraded, versioned hash format.
// New digests still use the legacy SHA-256 scheme; bcrypt digests are accepted
// on verify so existing rows can be migrated without breaking login.
const bcryptPrefix = "bcrypt$"

// HashPassword derives a hex-encoded digest and a fresh random salt from a
// plaintext password. The salt is the hex form of a random UUID (128 bits).
//
// The digest is a single unstretched SHA-256 pass over password||salt. That is
// a known weakness kept for compatibility with existing stored credentials;
// see DESIGN.md for the migration path.
func HashPassword(password string) (digest, salt string) {
	salt = strings.ReplaceAll(uuid.NewString(), "-", "")
	sum := sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(sum[:]), salt
}

// VerifyPassword reports whether the candidate password matches the stored
// digest and salt. Comparison is constant-time for the legacy scheme.
func VerifyPassword(password, digest, salt string) bool {
	if digest == "" {
		return false
	}
	if strings.HasPrefix(digest, bcryptPrefix) {
		hash := strings.TrimPrefix(digest, bcryptPrefix)
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	}
	sum := sha256.Sum256([]byte(password + salt))
	computed := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}
