package sig

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"golang.org/x/crypto/ssh"

	"github.com/axent-pl/svcauth/common"
)

// DecodeRSAPrivateKey decodes PEM-encoded RSA private key material.
// PKCS#1 and PKCS#8 blocks are tried first, then the OpenSSH format.
// The returned key is validated and has its CRT values precomputed,
// so callers can sign with it directly. Any failure wraps common.ErrKey —
// a corrupt or non-RSA key is a fatal credential problem, never retryable.
func DecodeRSAPrivateKey(pemText []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemText)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", common.ErrKey)
	}

	key, err := parseRSABlock(block, pemText)
	if err != nil {
		return nil, err
	}

	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrKey, err)
	}
	key.Precompute()
	return key, nil
}

func parseRSABlock(block *pem.Block, pemText []byte) (*rsa.PrivateKey, error) {
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	if parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		key, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: not an RSA key, got %T", common.ErrKey, parsed)
		}
		return key, nil
	}

	// some credential bundles ship keys in OpenSSH format
	if parsed, err := ssh.ParseRawPrivateKey(pemText); err == nil {
		key, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: not an RSA key, got %T", common.ErrKey, parsed)
		}
		return key, nil
	}

	return nil, fmt.Errorf("%w: unsupported PEM block %q", common.ErrKey, block.Type)
}
