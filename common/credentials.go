package common

type Kind string

const (
	Application    Kind = "application"
	ServiceAccount Kind = "service_account"
)

type SubjectID string

// Credentials is the read surface shared by every machine-identity
// credential record. Records are immutable value types; consumers decode
// the PEM key material fresh on every use.
type Credentials interface {
	Kind() Kind
	Subject() SubjectID
	GetKeyID() string
	GetPrivateKeyPEM() string
}
