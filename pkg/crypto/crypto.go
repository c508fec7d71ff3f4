package crypto

import (
	"crypto/rand"
	"errors"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the bcrypt work factor applied to stored credentials.
const PasswordHashCost = 10

// maxPasswordBytes is the bcrypt input limit. Longer passwords are truncated
// before hashing so the accepted length range (up to 100 chars) keeps working;
// bytes past this boundary do not contribute to the hash.
const maxPasswordBytes = 72

// HashPassword returns a salted bcrypt hash of the supplied password. The
// salt and work factor are embedded in the output.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncatePassword(password), PasswordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares the hashed password with the plaintext candidate.
// bcrypt performs the comparison in constant time.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), truncatePassword(password)) == nil
}

func truncatePassword(password string) []byte {
	raw := []byte(password)
	if len(raw) > maxPasswordBytes {
		raw = raw[:maxPasswordBytes]
	}
	return raw
}

// RandomDigits returns a string of n uniformly random decimal digits. Used for
// verification codes and order number suffixes; values are not guaranteed
// globally unique.
func RandomDigits(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("crypto: digit count must be positive")
	}

	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits), nil
}
