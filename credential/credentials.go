package credential

import (
	"fmt"

	"github.com/axent-pl/svcauth/common"
	"github.com/axent-pl/svcauth/sig"
)

// ApplicationCredentials identify an OIDC client application. The signed
// assertion is itself the proof of identity; no token exchange is required.
type ApplicationCredentials struct {
	ClientID      string `json:"clientId"`
	AppID         string `json:"appId"`
	KeyID         string `json:"keyId"`
	PrivateKeyPEM string `json:"key"`
}

func (ApplicationCredentials) Kind() common.Kind { return common.Application }

func (c ApplicationCredentials) Subject() common.SubjectID { return common.SubjectID(c.ClientID) }

func (c ApplicationCredentials) GetKeyID() string { return c.KeyID }

func (c ApplicationCredentials) GetPrivateKeyPEM() string { return c.PrivateKeyPEM }

func (c ApplicationCredentials) validate() error {
	switch {
	case c.ClientID == "":
		return fmt.Errorf("%w: missing clientId", common.ErrParse)
	case c.AppID == "":
		return fmt.Errorf("%w: missing appId", common.ErrParse)
	case c.KeyID == "":
		return fmt.Errorf("%w: missing keyId", common.ErrParse)
	case c.PrivateKeyPEM == "":
		return fmt.Errorf("%w: missing key", common.ErrParse)
	}
	if _, err := sig.DecodeRSAPrivateKey([]byte(c.PrivateKeyPEM)); err != nil {
		return err
	}
	return nil
}

var _ common.Credentials = ApplicationCredentials{}

// ServiceAccountCredentials identify a service account that must exchange
// its signed assertion for an access token at the remote token endpoint.
type ServiceAccountCredentials struct {
	UserID        string `json:"userId"`
	KeyID         string `json:"keyId"`
	PrivateKeyPEM string `json:"key"`
}

func (ServiceAccountCredentials) Kind() common.Kind { return common.ServiceAccount }

func (c ServiceAccountCredentials) Subject() common.SubjectID { return common.SubjectID(c.UserID) }

func (c ServiceAccountCredentials) GetKeyID() string { return c.KeyID }

func (c ServiceAccountCredentials) GetPrivateKeyPEM() string { return c.PrivateKeyPEM }

func (c ServiceAccountCredentials) validate() error {
	switch {
	case c.UserID == "":
		return fmt.Errorf("%w: missing userId", common.ErrParse)
	case c.KeyID == "":
		return fmt.Errorf("%w: missing keyId", common.ErrParse)
	case c.PrivateKeyPEM == "":
		return fmt.Errorf("%w: missing key", common.ErrParse)
	}
	if _, err := sig.DecodeRSAPrivateKey([]byte(c.PrivateKeyPEM)); err != nil {
		return err
	}
	return nil
}

var _ common.Credentials = ServiceAccountCredentials{}
