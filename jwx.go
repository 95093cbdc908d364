package claimsx

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// FromToken converts a parsed jwx token into a ClaimsSet. The token is read
// through its canonical JSON serialization, so extension ordering follows
// what jwx emits. Note that jwx normalizes aud to a list, so a token decoded
// from a single-string audience arrives list-valued here; callers that need
// the original multiplicity should decode the raw payload with Document and
// FromDocument instead.
func FromToken(token jwt.Token) (*ClaimsSet, error) {
	payload, err := json.Marshal(token)
	if err != nil {
		return nil, err
	}
	doc := NewDocument()
	if err := doc.UnmarshalJSON(payload); err != nil {
		return nil, err
	}
	return FromDocument(doc)
}

// Token converts the claims set into a jwx token for an external signer.
func (c *ClaimsSet) Token() (jwt.Token, error) {
	token := jwt.New()
	if c.issuer != "" {
		if err := token.Set(jwt.IssuerKey, c.issuer); err != nil {
			return nil, err
		}
	}
	if c.subject != "" {
		if err := token.Set(jwt.SubjectKey, c.subject); err != nil {
			return nil, err
		}
	}
	if c.audience != nil {
		if err := token.Set(jwt.AudienceKey, c.audience.Values()); err != nil {
			return nil, err
		}
	}
	if c.expiresAt != nil {
		if err := token.Set(jwt.ExpirationKey, *c.expiresAt); err != nil {
			return nil, err
		}
	}
	if c.notBefore != nil {
		if err := token.Set(jwt.NotBeforeKey, *c.notBefore); err != nil {
			return nil, err
		}
	}
	if c.issuedAt != nil {
		if err := token.Set(jwt.IssuedAtKey, *c.issuedAt); err != nil {
			return nil, err
		}
	}
	if c.tokenID != "" {
		if err := token.Set(jwt.JwtIDKey, c.tokenID); err != nil {
			return nil, err
		}
	}
	for _, key := range c.extensions.Keys() {
		if IsRegisteredName(key) {
			return nil, newClaimError(ErrCodeSchemaConflict, key, nil)
		}
		value, _ := c.extensions.Get(key)
		if err := token.Set(key, nativeOf(value)); err != nil {
			return nil, fmt.Errorf("set claim %q: %w", key, err)
		}
	}
	return token, nil
}
