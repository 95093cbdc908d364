package claimsx

import (
	"fmt"
	"strconv"
	"time"
)

// FromDocument parses a generic key/value document into a structured
// ClaimsSet. Registered names are routed to their typed fields and fail with
// ErrCodeMalformedClaim on a type mismatch; every other key is copied into
// the extension mapping unchanged, in document order. No registered claim is
// mandatory here: presence policy belongs to Validate.
func FromDocument(doc *Document) (*ClaimsSet, error) {
	set := &ClaimsSet{extensions: NewDocument()}
	for _, key := range doc.Keys() {
		value, _ := doc.Get(key)
		var err error
		switch key {
		case ClaimIssuer:
			set.issuer, err = stringClaim(key, value)
		case ClaimSubject:
			set.subject, err = stringClaim(key, value)
		case ClaimAudience:
			set.audience, err = audienceClaim(value)
		case ClaimExpiration:
			set.expiresAt, err = timestampClaim(key, value)
		case ClaimNotBefore:
			set.notBefore, err = timestampClaim(key, value)
		case ClaimIssuedAt:
			set.issuedAt, err = timestampClaim(key, value)
		case ClaimTokenID:
			set.tokenID, err = stringClaim(key, value)
		default:
			set.extensions.Set(key, value)
		}
		if err != nil {
			return nil, err
		}
	}
	return set, nil
}

// ToDocument is the inverse of FromDocument: present registered fields are
// emitted under their reserved names in RFC 7519 declaration order, followed
// by the extension claims in their original insertion order. The reserved
// namespace is re-checked so a conflicting extension can never shadow a
// registered claim, even though New makes that state unreachable.
func (c *ClaimsSet) ToDocument() (*Document, error) {
	doc := NewDocument()
	if c.issuer != "" {
		doc.Set(ClaimIssuer, String(c.issuer))
	}
	if c.subject != "" {
		doc.Set(ClaimSubject, String(c.subject))
	}
	if c.audience != nil {
		doc.Set(ClaimAudience, audienceValue(c.audience))
	}
	if c.expiresAt != nil {
		doc.Set(ClaimExpiration, timestampNumber(c.expiresAt))
	}
	if c.notBefore != nil {
		doc.Set(ClaimNotBefore, timestampNumber(c.notBefore))
	}
	if c.issuedAt != nil {
		doc.Set(ClaimIssuedAt, timestampNumber(c.issuedAt))
	}
	if c.tokenID != "" {
		doc.Set(ClaimTokenID, String(c.tokenID))
	}
	for _, key := range c.extensions.Keys() {
		if IsRegisteredName(key) {
			return nil, newClaimError(ErrCodeSchemaConflict, key, nil)
		}
		value, _ := c.extensions.Get(key)
		doc.Set(key, value)
	}
	return doc, nil
}

func stringClaim(name string, value Value) (string, error) {
	s, ok := value.(String)
	if !ok {
		return "", newClaimError(ErrCodeMalformedClaim, name, fmt.Errorf("expected string, got %T", value))
	}
	return string(s), nil
}

func timestampClaim(name string, value Value) (*time.Time, error) {
	n, ok := value.(Number)
	if !ok {
		return nil, newClaimError(ErrCodeMalformedClaim, name, fmt.Errorf("expected integer seconds, got %T", value))
	}
	seconds, err := n.Int64()
	if err != nil {
		return nil, newClaimError(ErrCodeMalformedClaim, name, fmt.Errorf("not an integer: %q", string(n)))
	}
	if seconds < 0 {
		return nil, newClaimError(ErrCodeMalformedClaim, name, fmt.Errorf("timestamp %d before epoch", seconds))
	}
	normalized := time.Unix(seconds, 0).UTC()
	return &normalized, nil
}

// audienceClaim accepts the two shapes RFC 7519 allows for aud: a bare
// string, or a sequence of strings. The shape is recorded so encoding can
// reproduce it exactly.
func audienceClaim(value Value) (*Audience, error) {
	switch t := value.(type) {
	case String:
		return NewSingleAudience(string(t)), nil
	case Array:
		members := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(String)
			if !ok {
				return nil, newClaimError(ErrCodeMalformedClaim, ClaimAudience, fmt.Errorf("member must be a string, got %T", item))
			}
			members = append(members, string(s))
		}
		return NewAudience(members...), nil
	default:
		return nil, newClaimError(ErrCodeMalformedClaim, ClaimAudience, fmt.Errorf("expected string or string sequence, got %T", value))
	}
}

func audienceValue(a *Audience) Value {
	if a.single {
		return String(a.values[0])
	}
	arr := make(Array, 0, len(a.values))
	for _, member := range a.values {
		arr = append(arr, String(member))
	}
	return arr
}

func timestampNumber(t *time.Time) Number {
	return Number(strconv.FormatInt(t.Unix(), 10))
}
