package assertion

import (
	"context"
	"fmt"
	"maps"
	"time"

	jwtx "github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/go-uuid"

	"github.com/axent-pl/svcauth/common"
	"github.com/axent-pl/svcauth/logx"
	"github.com/axent-pl/svcauth/sig"
)

// Assertion lifetime bounds. The remote identity platform rejects
// assertions with a validity window outside this range.
const (
	MinLifetime     = time.Second
	MaxLifetime     = time.Hour
	DefaultLifetime = time.Hour
)

type options struct {
	lifetime time.Duration
	withJTI  bool
	now      func() time.Time
}

type Option func(*options) error

// WithLifetime sets the assertion validity window. It must satisfy
// 1s <= lifetime <= 1h; when the option is not supplied the window
// defaults to exactly one hour.
func WithLifetime(lifetime time.Duration) Option {
	return func(o *options) error {
		if lifetime < MinLifetime || lifetime > MaxLifetime {
			return fmt.Errorf("%w: lifetime must be between %s and %s, got %s",
				common.ErrInvalidArgument, MinLifetime, MaxLifetime, lifetime)
		}
		o.lifetime = lifetime
		return nil
	}
}

// WithJTI adds a unique "jti" claim so the server can reject replayed
// assertions (RFC 7523 section 4).
func WithJTI() Option {
	return func(o *options) error {
		o.withJTI = true
		return nil
	}
}

// WithClock overrides the time source. Test seam.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now == nil {
			return fmt.Errorf("%w: nil clock", common.ErrInvalidArgument)
		}
		o.now = now
		return nil
	}
}

type Signer struct{}

// Sign builds and RS256-signs a fresh assertion binding the credential
// subject to the given audience. Every call decodes the PEM key and signs
// anew; nothing is cached, so concurrent calls on the same record are
// independent.
func (s *Signer) Sign(ctx context.Context, creds common.Credentials, audience string, opts ...Option) (string, error) {
	o := options{lifetime: DefaultLifetime, now: time.Now}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return "", err
		}
	}

	claims, err := s.BaseClaims(creds, audience, o.lifetime, o.now())
	if err != nil {
		logx.L().Debug("could not build assertion claims", "context", ctx, "error", err)
		return "", err
	}

	if o.withJTI {
		jti, err := uuid.GenerateUUID()
		if err != nil {
			logx.L().Debug("could not generate jti", "context", ctx, "error", err)
			return "", fmt.Errorf("could not generate jti: %w", err)
		}
		claims["jti"] = jti
	}

	signed, err := s.sign(claims, creds)
	if err != nil {
		logx.L().Debug("could not sign assertion", "context", ctx, "error", err)
		return "", err
	}
	return signed, nil
}

// BaseClaims builds the mandatory claim set: iss and sub both carry the
// credential subject, aud the caller-supplied audience, and exp is derived
// from iat so the window length is exact to the second.
func (s *Signer) BaseClaims(creds common.Credentials, audience string, lifetime time.Duration, now time.Time) (map[string]any, error) {
	if audience == "" {
		return nil, fmt.Errorf("%w: audience is required", common.ErrInvalidArgument)
	}

	now = now.UTC()
	claims := make(map[string]any)
	claims["iss"] = string(creds.Subject())
	claims["sub"] = string(creds.Subject())
	claims["aud"] = audience
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(lifetime).Unix()
	return claims, nil
}

func (s *Signer) sign(payload map[string]any, creds common.Credentials) (string, error) {
	key, err := sig.DecodeRSAPrivateKey([]byte(creds.GetPrivateKeyPEM()))
	if err != nil {
		return "", err
	}

	signingMethod, err := sig.SigAlgRS256.ToGoJWT()
	if err != nil {
		return "", fmt.Errorf("could not sign payload: %w", err)
	}

	claims := jwtx.MapClaims{}
	maps.Copy(claims, payload)

	token := jwtx.NewWithClaims(signingMethod, claims)
	if kid := creds.GetKeyID(); kid != "" {
		token.Header["kid"] = kid
	}

	tokenString, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("could not sign payload: %w", err)
	}
	return tokenString, nil
}
