// Package signing implements draft-cavage HTTP request signing (hs2019) as
// required by the management platform's API. A signature is computed over
// the request target, date, host, and a SHA-256 body digest, and carried in
// the Authorization header. Both RSA and ECDSA PEM keys are supported.
//
// One Signer serves every outbound request, control-plane and raw download
// alike; callers decide how to read the response.
package signing

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"selcollect/internal/errors"
)

// Algorithm is the signature scheme advertised in the Authorization header.
const Algorithm = "hs2019"

// signedHeaders is the ordered header list covered by the signature.
const signedHeaders = "(request-target) date host digest"

// Signer signs HTTP requests with a private key and key ID.
type Signer struct {
	keyID string
	key   crypto.Signer
	now   func() time.Time
}

// Option configures Signer behavior.
type Option func(*Signer)

// WithClock overrides the time source used for the Date header.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		s.now = now
	}
}

// New creates a Signer from an already-parsed private key.
func New(keyID string, key crypto.Signer, opts ...Option) *Signer {
	s := &Signer{
		keyID: keyID,
		key:   key,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromFile creates a Signer from a PEM-encoded private key file.
func NewFromFile(keyID, path string, opts ...Option) (*Signer, error) {
	key, err := LoadPrivateKey(path)
	if err != nil {
		return nil, err
	}
	return New(keyID, key, opts...), nil
}

// LoadPrivateKey reads and parses a PEM-encoded RSA or ECDSA private key.
// PKCS#8, PKCS#1, and SEC 1 encodings are accepted.
func LoadPrivateKey(path string) (crypto.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewKeyLoadError(path, err)
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.NewKeyLoadError(path, fmt.Errorf("no PEM block found"))
	}

	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		signer, ok := key.(crypto.Signer)
		if !ok {
			return nil, errors.NewKeyLoadError(path, fmt.Errorf("unsupported key type %T", key))
		}
		return signer, nil
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	return nil, errors.NewKeyLoadError(path, fmt.Errorf("unrecognized private key format"))
}

// Sign computes the body digest and signature for req and sets the Digest,
// Date, and Authorization headers. body must be the exact request payload
// (nil for bodyless requests).
func (s *Signer) Sign(req *http.Request, body []byte) error {
	date := s.now().UTC().Format(http.TimeFormat)
	digest := bodyDigest(body)
	host := req.Host
	if host == "" {
		host = req.URL.Host
	}

	signingStr := signingString(req.Method, requestTarget(req), date, host, digest)

	signature, err := s.sign([]byte(signingStr))
	if err != nil {
		return errors.NewAuthError("signature computation failed", err)
	}

	req.Header.Set("Digest", digest)
	req.Header.Set("Date", date)
	req.Header.Set("Authorization", fmt.Sprintf(
		"Signature keyId=%q,algorithm=%q,headers=%q,signature=%q",
		s.keyID, Algorithm, signedHeaders, base64.StdEncoding.EncodeToString(signature),
	))
	return nil
}

// sign produces the raw signature over the signing string.
func (s *Signer) sign(msg []byte) ([]byte, error) {
	hashed := sha256.Sum256(msg)
	switch key := s.key.(type) {
	case *rsa.PrivateKey:
		return rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, hashed[:])
	case *ecdsa.PrivateKey:
		return ecdsa.SignASN1(rand.Reader, key, hashed[:])
	default:
		return nil, fmt.Errorf("unsupported key type %T", s.key)
	}
}

// bodyDigest returns the Digest header value for a request payload.
func bodyDigest(body []byte) string {
	sum := sha256.Sum256(body)
	return "SHA-256=" + base64.StdEncoding.EncodeToString(sum[:])
}

// requestTarget returns the path (plus query, if any) of the request.
func requestTarget(req *http.Request) string {
	target := req.URL.EscapedPath()
	if target == "" {
		target = "/"
	}
	if req.URL.RawQuery != "" {
		target += "?" + req.URL.RawQuery
	}
	return target
}

// signingString assembles the canonical string covered by the signature.
// Header names are lowercase, one "name: value" pair per line, in the
// order declared by signedHeaders.
func signingString(method, target, date, host, digest string) string {
	lines := []string{
		"(request-target): " + strings.ToLower(method) + " " + target,
		"date: " + date,
		"host: " + host,
		"digest: " + digest,
	}
	return strings.Join(lines, "\n")
}
