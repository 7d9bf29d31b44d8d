package credential_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/axent-pl/svcauth/common"
	"github.com/axent-pl/svcauth/credential"
)

func testKeyPEM(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("could not generate test key: %v", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}))
}

func TestNewServiceAccountCredentials(t *testing.T) {
	keyPEM := testKeyPEM(t)

	validJSON, _ := json.Marshal(map[string]string{
		"userId": "170079991923474689",
		"keyId":  "key-1",
		"key":    keyPEM,
	})

	tests := []struct {
		name    string
		input   string
		want    credential.ServiceAccountCredentials
		wantErr error
	}{
		{
			name:  "valid",
			input: string(validJSON),
			want: credential.ServiceAccountCredentials{
				UserID:        "170079991923474689",
				KeyID:         "key-1",
				PrivateKeyPEM: keyPEM,
			},
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: common.ErrMalformedData,
		},
		{
			name:    "whitespace input",
			input:   "  \n\t",
			wantErr: common.ErrMalformedData,
		},
		{
			name:    "json null",
			input:   "null",
			wantErr: common.ErrMalformedData,
		},
		{
			name:    "invalid json",
			input:   `{"userId":`,
			wantErr: common.ErrParse,
		},
		{
			name:    "missing userId",
			input:   `{"keyId":"key-1","key":"x"}`,
			wantErr: common.ErrParse,
		},
		{
			name:    "missing keyId",
			input:   `{"userId":"170079991923474689","key":"x"}`,
			wantErr: common.ErrParse,
		},
		{
			name:    "missing key",
			input:   `{"userId":"170079991923474689","keyId":"key-1"}`,
			wantErr: common.ErrParse,
		},
		{
			name:    "key not valid PEM",
			input:   `{"userId":"170079991923474689","keyId":"key-1","key":"not a pem"}`,
			wantErr: common.ErrKey,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotErr := credential.NewServiceAccountCredentialsFromString(tt.input)
			if tt.wantErr != nil {
				if gotErr == nil {
					t.Fatal("NewServiceAccountCredentialsFromString() succeeded unexpectedly")
				}
				if !errors.Is(gotErr, tt.wantErr) {
					t.Errorf("NewServiceAccountCredentialsFromString() error = %v, want %v", gotErr, tt.wantErr)
				}
				return
			}
			if gotErr != nil {
				t.Fatalf("NewServiceAccountCredentialsFromString() failed: %v", gotErr)
			}
			if got != tt.want {
				t.Errorf("NewServiceAccountCredentialsFromString() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewApplicationCredentials(t *testing.T) {
	keyPEM := testKeyPEM(t)

	validJSON, _ := json.Marshal(map[string]string{
		"clientId": "acme-client",
		"appId":    "app-42",
		"keyId":    "key-1",
		"key":      keyPEM,
	})

	got, err := credential.NewApplicationCredentialsFromString(string(validJSON))
	if err != nil {
		t.Fatalf("NewApplicationCredentialsFromString() failed: %v", err)
	}
	if got.Subject() != "acme-client" {
		t.Errorf("Subject() = %q, want %q", got.Subject(), "acme-client")
	}
	if got.AppID != "app-42" {
		t.Errorf("AppID = %q, want %q", got.AppID, "app-42")
	}

	if _, err := credential.NewApplicationCredentialsFromString(`{"clientId":"acme-client","keyId":"key-1","key":"x"}`); !errors.Is(err, common.ErrParse) {
		t.Errorf("missing appId error = %v, want ErrParse", err)
	}
}

// All three load paths reduce to one parse path and must yield
// field-for-field identical records.
func TestLoadPathsEquivalent(t *testing.T) {
	keyPEM := testKeyPEM(t)

	credJSON, _ := json.Marshal(map[string]string{
		"userId": "170079991923474689",
		"keyId":  "key-1",
		"key":    keyPEM,
	})

	path := filepath.Join(t.TempDir(), "service_account.json")
	if err := os.WriteFile(path, credJSON, 0o600); err != nil {
		t.Fatalf("could not write credential file: %v", err)
	}

	fromFile, err := credential.NewServiceAccountCredentialsFromFile(path)
	if err != nil {
		t.Fatalf("FromFile() failed: %v", err)
	}
	fromString, err := credential.NewServiceAccountCredentialsFromString(string(credJSON))
	if err != nil {
		t.Fatalf("FromString() failed: %v", err)
	}
	fromReader, err := credential.NewServiceAccountCredentialsFromReader(strings.NewReader(string(credJSON)))
	if err != nil {
		t.Fatalf("FromReader() failed: %v", err)
	}

	if fromFile != fromString || fromString != fromReader {
		t.Errorf("load paths diverge:\nfile:   %+v\nstring: %+v\nreader: %+v", fromFile, fromString, fromReader)
	}
	if fromFile.Subject() != "170079991923474689" {
		t.Errorf("Subject() = %q, want %q", fromFile.Subject(), "170079991923474689")
	}
}

func TestNewServiceAccountCredentialsFromFile_NotFound(t *testing.T) {
	relative := "does/not/exist.json"

	_, err := credential.NewServiceAccountCredentialsFromFile(relative)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("FromFile() error = %v, want ErrNotFound", err)
	}

	resolved, _ := filepath.Abs(relative)
	if !strings.Contains(err.Error(), resolved) {
		t.Errorf("FromFile() error %q does not name resolved path %q", err.Error(), resolved)
	}
}
