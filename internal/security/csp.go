// Package security builds the Content-Security-Policy sent with preview pages.
package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"slices"
	"strings"
)

// Header is the response header carrying the policy.
const Header = "Content-Security-Policy"

// NewNonce returns 16 random bytes, base64-encoded, for use in a script-src
// nonce source.
func NewNonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// Directive is a single policy directive and its allowed sources.
type Directive struct {
	Name    string
	Sources []string
}

// Policy is an ordered list of directives.
type Policy []Directive

// String serializes the policy to a header value. Directives without sources
// are omitted.
func (p Policy) String() string {
	parts := make([]string, 0, len(p))
	for _, d := range p {
		if len(d.Sources) == 0 {
			continue
		}
		parts = append(parts, d.Name+" "+strings.Join(d.Sources, " "))
	}
	return strings.Join(parts, "; ")
}

// With returns a copy of p with sources added to the named directive. The
// directive is appended if p does not have it yet.
func (p Policy) With(name string, sources ...string) Policy {
	out := make(Policy, len(p))
	for i, d := range p {
		out[i] = Directive{Name: d.Name, Sources: slices.Clone(d.Sources)}
	}
	for i := range out {
		if out[i].Name == name {
			out[i].Sources = append(out[i].Sources, sources...)
			return out
		}
	}
	return append(out, Directive{Name: name, Sources: slices.Clone(sources)})
}

// PreviewPolicy returns the policy for preview pages. Inline styles are
// allowed because calendar markup is usually styled in the page; scripts run
// only when they carry nonce. An empty nonce forbids scripts entirely.
func PreviewPolicy(nonce string) Policy {
	base := Policy{
		{Name: "default-src", Sources: []string{"'none'"}},
		{Name: "style-src", Sources: []string{"'self'", "'unsafe-inline'"}},
		{Name: "img-src", Sources: []string{"'self'", "data:"}},
		{Name: "connect-src", Sources: []string{"'self'"}},
		{Name: "base-uri", Sources: []string{"'self'"}},
		{Name: "form-action", Sources: []string{"'self'"}},
		{Name: "frame-ancestors", Sources: []string{"'none'"}},
	}
	if nonce == "" {
		return base.With("script-src", "'none'")
	}
	return base.With("script-src", "'nonce-"+nonce+"'")
}
