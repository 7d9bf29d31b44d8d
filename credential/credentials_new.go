package credential

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/axent-pl/svcauth/common"
)

func NewApplicationCredentialsFromFile(path string) (ApplicationCredentials, error) {
	return recordFromFile[ApplicationCredentials](path)
}

func NewApplicationCredentialsFromReader(r io.Reader) (ApplicationCredentials, error) {
	return recordFromReader[ApplicationCredentials](r)
}

func NewApplicationCredentialsFromString(s string) (ApplicationCredentials, error) {
	return recordFromReader[ApplicationCredentials](strings.NewReader(s))
}

func NewServiceAccountCredentialsFromFile(path string) (ServiceAccountCredentials, error) {
	return recordFromFile[ServiceAccountCredentials](path)
}

func NewServiceAccountCredentialsFromReader(r io.Reader) (ServiceAccountCredentials, error) {
	return recordFromReader[ServiceAccountCredentials](r)
}

func NewServiceAccountCredentialsFromString(s string) (ServiceAccountCredentials, error) {
	return recordFromReader[ServiceAccountCredentials](strings.NewReader(s))
}

type record interface {
	validate() error
}

// recordFromReader is the single canonical parse path; the file and string
// constructors reduce to it.
func recordFromReader[T record](r io.Reader) (T, error) {
	var zero T

	data, err := io.ReadAll(r)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", common.ErrParse, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return zero, fmt.Errorf("%w: empty input", common.ErrMalformedData)
	}

	var rec T
	if err := json.Unmarshal(data, &rec); err != nil {
		return zero, fmt.Errorf("%w: %v", common.ErrParse, err)
	}
	if err := rec.validate(); err != nil {
		return zero, err
	}
	return rec, nil
}

func recordFromFile[T record](path string) (T, error) {
	var zero T

	// resolve relative paths up front so a NotFound names the actual
	// location that was checked
	resolved, err := filepath.Abs(path)
	if err != nil {
		return zero, fmt.Errorf("%w: %s", common.ErrNotFound, path)
	}

	f, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zero, fmt.Errorf("%w: %s", common.ErrNotFound, resolved)
		}
		return zero, err
	}
	defer f.Close()

	return recordFromReader[T](f)
}
