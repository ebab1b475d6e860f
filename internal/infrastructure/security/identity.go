package security

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/StockFoundry/marketbridge-go/internal/domain/session"
)

// DeriveIdentity maps (email, password) to the opaque partition key that
// scopes stored sessions per user. The salt is derived from the lowercased
// email so the mapping stays deterministic: the same credentials always
// produce the same identity, and changing either field changes it. The
// result is a storage key, never an authentication credential.
func DeriveIdentity(email, password string, iterations int) session.Identity {
	if iterations <= 0 {
		iterations = 65536
	}
	salt := sha256.Sum256([]byte("marketbridge-identity:" + strings.ToLower(strings.TrimSpace(email))))
	key := pbkdf2.Key([]byte(password), salt[:], iterations, 32, sha256.New)
	return session.Identity(hex.EncodeToString(key))
}
