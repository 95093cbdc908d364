package claimsx

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/samber/lo"
)

// Registered claim names. See https://datatracker.ietf.org/doc/html/rfc7519#section-4.1
const (
	ClaimIssuer     = "iss"
	ClaimSubject    = "sub"
	ClaimAudience   = "aud"
	ClaimExpiration = "exp"
	ClaimNotBefore  = "nbf"
	ClaimIssuedAt   = "iat"
	ClaimTokenID    = "jti"
)

// registeredNames lists the reserved names in RFC 7519 declaration order.
// Document encoding and required-claim checks both follow this order.
var registeredNames = []string{
	ClaimIssuer,
	ClaimSubject,
	ClaimAudience,
	ClaimExpiration,
	ClaimNotBefore,
	ClaimIssuedAt,
	ClaimTokenID,
}

// IsRegisteredName reports whether name is one of the seven reserved
// registered claim names.
func IsRegisteredName(name string) bool {
	return lo.Contains(registeredNames, name)
}

// Audience holds the aud claim. It remembers whether the source document
// declared a single string or a list so round-trips preserve the original
// multiplicity, while membership and equality stay order-insensitive.
type Audience struct {
	values []string
	single bool
}

// NewAudience returns a list-form audience.
func NewAudience(values ...string) *Audience {
	return &Audience{values: append([]string(nil), values...)}
}

// NewSingleAudience returns a single-string audience.
func NewSingleAudience(value string) *Audience {
	return &Audience{values: []string{value}, single: true}
}

// Values returns the audience members in document order.
func (a *Audience) Values() []string {
	if a == nil {
		return nil
	}
	return append([]string(nil), a.values...)
}

// IsSingle reports whether the source document carried a bare string.
func (a *Audience) IsSingle() bool {
	return a != nil && a.single
}

// Contains reports whether value is an audience member. Comparison is
// constant-time per member and scans the full set regardless of matches.
func (a *Audience) Contains(value string) bool {
	if a == nil {
		return false
	}
	match := false
	for _, member := range a.values {
		if subtle.ConstantTimeCompare([]byte(member), []byte(value)) == 1 {
			match = true
		}
	}
	return match
}

// Equal compares two audiences as unordered sets; single/list multiplicity
// affects encoding, never logical equality.
func (a *Audience) Equal(other *Audience) bool {
	if a == nil || other == nil {
		return a == nil && other == nil
	}
	return lo.Every(a.values, other.values) && lo.Every(other.values, a.values)
}

// Registered carries the typed registered claim fields for direct
// construction on the issuance path. Zero values mean the claim is absent:
// the library never defaults a claim the caller did not set.
type Registered struct {
	Issuer    string
	Subject   string
	Audience  *Audience
	ExpiresAt time.Time
	NotBefore time.Time
	IssuedAt  time.Time
	TokenID   string
}

// ClaimsSet is a structured version of the JWT Claims Set, as referenced at
// https://datatracker.ietf.org/doc/html/rfc7519#section-4. Registered claims
// are typed fields; every other claim present in the source document lives in
// the extension mapping with its original order preserved. A constructed
// ClaimsSet is immutable and safe for concurrent readers.
type ClaimsSet struct {
	issuer     string
	subject    string
	audience   *Audience
	expiresAt  *time.Time
	notBefore  *time.Time
	issuedAt   *time.Time
	tokenID    string
	extensions *Document
}

// New builds a ClaimsSet from typed registered fields and an extension
// mapping. It fails with ErrCodeSchemaConflict when the extension mapping
// reuses a registered name, keeping the two namespaces disjoint.
func New(registered Registered, extensions *Document) (*ClaimsSet, error) {
	for _, key := range extensions.Keys() {
		if IsRegisteredName(key) {
			return nil, newClaimError(ErrCodeSchemaConflict, key, nil)
		}
	}
	set := &ClaimsSet{
		issuer:     registered.Issuer,
		subject:    registered.Subject,
		audience:   registered.Audience,
		tokenID:    registered.TokenID,
		extensions: extensions.Clone(),
	}
	var err error
	if set.expiresAt, err = timestampField(ClaimExpiration, registered.ExpiresAt); err != nil {
		return nil, err
	}
	if set.notBefore, err = timestampField(ClaimNotBefore, registered.NotBefore); err != nil {
		return nil, err
	}
	if set.issuedAt, err = timestampField(ClaimIssuedAt, registered.IssuedAt); err != nil {
		return nil, err
	}
	return set, nil
}

// timestampField normalizes a claim instant to whole seconds UTC. The zero
// time means the claim is absent; pre-epoch instants are rejected since the
// numeric encoding only models non-negative seconds.
func timestampField(name string, t time.Time) (*time.Time, error) {
	if t.IsZero() {
		return nil, nil
	}
	seconds := t.Unix()
	if seconds < 0 {
		return nil, newClaimError(ErrCodeMalformedClaim, name, fmt.Errorf("timestamp %d before epoch", seconds))
	}
	normalized := time.Unix(seconds, 0).UTC()
	return &normalized, nil
}

// Issuer returns the iss claim.
func (c *ClaimsSet) Issuer() (string, bool) {
	return c.issuer, c.issuer != ""
}

// Subject returns the sub claim.
func (c *ClaimsSet) Subject() (string, bool) {
	return c.subject, c.subject != ""
}

// Audience returns the aud claim, or nil when absent.
func (c *ClaimsSet) Audience() *Audience {
	return c.audience
}

// Expiration returns the exp claim.
func (c *ClaimsSet) Expiration() (time.Time, bool) {
	return timestampValue(c.expiresAt)
}

// NotBefore returns the nbf claim.
func (c *ClaimsSet) NotBefore() (time.Time, bool) {
	return timestampValue(c.notBefore)
}

// IssuedAt returns the iat claim.
func (c *ClaimsSet) IssuedAt() (time.Time, bool) {
	return timestampValue(c.issuedAt)
}

// TokenID returns the jti claim.
func (c *ClaimsSet) TokenID() (string, bool) {
	return c.tokenID, c.tokenID != ""
}

// Extensions returns a copy of the extension mapping in document order.
func (c *ClaimsSet) Extensions() *Document {
	return c.extensions.Clone()
}

// Extension looks up a single extension claim by name.
func (c *ClaimsSet) Extension(name string) (Value, bool) {
	return c.extensions.Get(name)
}

// Has reports whether the named claim, registered or extension, is present.
func (c *ClaimsSet) Has(name string) bool {
	switch name {
	case ClaimIssuer:
		return c.issuer != ""
	case ClaimSubject:
		return c.subject != ""
	case ClaimAudience:
		return c.audience != nil
	case ClaimExpiration:
		return c.expiresAt != nil
	case ClaimNotBefore:
		return c.notBefore != nil
	case ClaimIssuedAt:
		return c.issuedAt != nil
	case ClaimTokenID:
		return c.tokenID != ""
	default:
		return c.extensions.Has(name)
	}
}

// Equal reports logical equality: every registered field equal, and the
// extension mappings equal as unordered key/value sets. Document order is a
// round-trip concern and never affects equality.
func (c *ClaimsSet) Equal(other *ClaimsSet) bool {
	if c == nil || other == nil {
		return c == nil && other == nil
	}
	if c.issuer != other.issuer || c.subject != other.subject || c.tokenID != other.tokenID {
		return false
	}
	if !c.audience.Equal(other.audience) {
		return false
	}
	if !timestampEqual(c.expiresAt, other.expiresAt) ||
		!timestampEqual(c.notBefore, other.notBefore) ||
		!timestampEqual(c.issuedAt, other.issuedAt) {
		return false
	}
	return c.extensions.Equal(other.extensions)
}

func timestampValue(t *time.Time) (time.Time, bool) {
	if t == nil {
		return time.Time{}, false
	}
	return *t, true
}

func timestampEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
