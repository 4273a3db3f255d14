package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword bcrypt-hashes a signup or profile password. Costs below the
// bcrypt minimum fall back to the library default so a misconfigured
// BCRYPT_COST can never silently produce weak hashes.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
// A malformed hash and a wrong password both read as "no match".
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
