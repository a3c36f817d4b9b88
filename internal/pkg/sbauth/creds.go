package sbauth

import (
	"crypto/sha1"
	"encoding/base64"
	"fmt"

	"github.com/go-openapi/validate"
	"github.com/pkg/errors"
)

// Credential is the token/secret pair issued by the SwitchBot app
type Credential struct {
	Token  string
	Secret string
}

// MissingCredentialError is a configuration error: a request cannot be
// signed without both halves of the credential
type MissingCredentialError struct {
	Field string
	cause error
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing credential: %s is not set", e.Field)
}

func (e *MissingCredentialError) Unwrap() error {
	return e.cause
}

// IsMissingCredential reports whether err, or anything it wraps, is a
// MissingCredentialError
func IsMissingCredential(err error) bool {
	var mce *MissingCredentialError
	return errors.As(err, &mce)
}

func NewCredential(token string, secret string) (Credential, error) {
	c := Credential{Token: token, Secret: secret}
	if err := c.Validate(); err != nil {
		return Credential{}, err
	}

	return c, nil
}

// Validate checks that both the token and the secret are present
func (c Credential) Validate() error {
	if verr := validate.RequiredString("token", "config", c.Token); verr != nil {
		return &MissingCredentialError{Field: "token", cause: verr}
	}
	if verr := validate.RequiredString("secret", "config", c.Secret); verr != nil {
		return &MissingCredentialError{Field: "secret", cause: verr}
	}

	return nil
}

func hashOf(s string) string {
	sum := sha1.Sum([]byte(s))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// obfuscate the token and secret when stringified
//
func (c Credential) String() string {
	return fmt.Sprintf("token [%s], secret [%s]", hashOf(c.Token), hashOf(c.Secret))
}
