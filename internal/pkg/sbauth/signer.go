package sbauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Header names and fixed values required by the SwitchBot API.  The names
// are sent exactly as written here.
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderCharset       = "charset"
	HeaderTimestamp     = "t"
	HeaderSign          = "sign"
	HeaderNonce         = "nonce"

	contentTypeJSON = "application/json"
	charsetUTF8     = "utf8"
	redacted        = "<redacted>"
)

// Headers is the authentication header set for a single request
type Headers struct {
	Token     string
	Timestamp string
	Nonce     string
	Signature string
}

// Field is one header name/value pair
type Field struct {
	Name  string
	Value string
}

// Fields returns the six headers in a stable order
func (h Headers) Fields() []Field {
	return []Field{
		{HeaderAuthorization, h.Token},
		{HeaderContentType, contentTypeJSON},
		{HeaderCharset, charsetUTF8},
		{HeaderTimestamp, h.Timestamp},
		{HeaderSign, h.Signature},
		{HeaderNonce, h.Nonce},
	}
}

// Apply sets the headers on req.  The header map is written directly so
// the names are not canonicalised.
func (h Headers) Apply(req *http.Request) {
	if req.Header == nil {
		req.Header = make(http.Header)
	}

	for _, f := range h.Fields() {
		req.Header[f.Name] = []string{f.Value}
	}
}

// Redacted returns a copy with the token and signature masked
func (h Headers) Redacted() Headers {
	h.Token = redacted
	h.Signature = redacted
	return h
}

// Signer produces a fresh header set for every request
type Signer struct {
	cred  Credential
	clock func() time.Time
	nonce func() string
}

func NewSigner(cred Credential) *Signer {
	return &Signer{
		cred:  cred,
		clock: time.Now,
		nonce: newNonce,
	}
}

func newNonce() string {
	return uuid.New().String()
}

func (s *Signer) WithClock(clock func() time.Time) *Signer {
	ns := *s
	ns.clock = clock
	return &ns
}

func (s *Signer) WithNonceSource(nonce func() string) *Signer {
	ns := *s
	ns.nonce = nonce
	return &ns
}

// Headers signs a new request.  It fails with a MissingCredentialError,
// before reading the clock, if the credential is incomplete.
func (s *Signer) Headers() (Headers, error) {
	if err := s.cred.Validate(); err != nil {
		return Headers{}, err
	}

	timestamp := Timestamp(s.clock())
	nonce := s.nonce()

	return Headers{
		Token:     s.cred.Token,
		Timestamp: timestamp,
		Nonce:     nonce,
		Signature: Sign(s.cred.Token, s.cred.Secret, timestamp, nonce),
	}, nil
}

// Timestamp formats t as milliseconds since the epoch, rounded to the
// nearest millisecond
func Timestamp(t time.Time) string {
	half := int64(time.Millisecond / 2)
	ms := (t.UnixNano() + half) / int64(time.Millisecond)
	return strconv.FormatInt(ms, 10)
}

// Sign returns base64(HMAC-SHA256(secret, token + timestamp + nonce))
func Sign(token string, secret string, timestamp string, nonce string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token + timestamp + nonce))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
