package sig

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// SigAlg represents a JWS signature algorithm supported for assertion signing.
// Assertions are always RSA-signed, so only the RS* family is mapped.
type SigAlg int

const (
	SigAlgUnknown SigAlg = iota

	// RSA PKCS#1 v1.5
	SigAlgRS256
	SigAlgRS384
	SigAlgRS512
)

func (sa SigAlg) String() string {
	mapping := map[SigAlg]string{
		SigAlgRS256: "RS256",
		SigAlgRS384: "RS384",
		SigAlgRS512: "RS512",
	}
	if alg, ok := mapping[sa]; ok {
		return alg
	}
	return "unknown"
}

// ---------- JWT package ---
func (sa SigAlg) ToGoJWT() (jwt.SigningMethod, error) {
	mapping := map[SigAlg]jwt.SigningMethod{
		SigAlgRS256: jwt.SigningMethodRS256,
		SigAlgRS384: jwt.SigningMethodRS384,
		SigAlgRS512: jwt.SigningMethodRS512,
	}
	if alg, ok := mapping[sa]; ok {
		return alg, nil
	}
	return nil, fmt.Errorf("unknown alg: %s", sa)
}

func FromOAuth(s string) (SigAlg, error) {
	mapping := map[string]SigAlg{
		"RS256": SigAlgRS256,
		"RS384": SigAlgRS384,
		"RS512": SigAlgRS512,
	}
	if alg, ok := mapping[s]; ok {
		return alg, nil
	}
	return SigAlgUnknown, fmt.Errorf("unknown alg: %s", s)
}
