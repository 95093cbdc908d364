package claimsx

import (
	"time"

	"github.com/google/uuid"
)

// Builder assembles a ClaimsSet on the issuance path with a chained API.
// Errors are collected and surfaced by Build, so calls can be strung
// together without intermediate checks.
type Builder struct {
	registered Registered
	extensions *Document
	err        error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{extensions: NewDocument()}
}

// Issuer sets the iss claim.
func (b *Builder) Issuer(issuer string) *Builder {
	b.registered.Issuer = issuer
	return b
}

// Subject sets the sub claim.
func (b *Builder) Subject(subject string) *Builder {
	b.registered.Subject = subject
	return b
}

// Audience sets the aud claim in list form.
func (b *Builder) Audience(values ...string) *Builder {
	b.registered.Audience = NewAudience(values...)
	return b
}

// SingleAudience sets the aud claim as a bare string.
func (b *Builder) SingleAudience(value string) *Builder {
	b.registered.Audience = NewSingleAudience(value)
	return b
}

// Expiration sets the exp claim.
func (b *Builder) Expiration(t time.Time) *Builder {
	b.registered.ExpiresAt = t
	return b
}

// NotBefore sets the nbf claim.
func (b *Builder) NotBefore(t time.Time) *Builder {
	b.registered.NotBefore = t
	return b
}

// IssuedAt sets the iat claim.
func (b *Builder) IssuedAt(t time.Time) *Builder {
	b.registered.IssuedAt = t
	return b
}

// TokenID sets the jti claim.
func (b *Builder) TokenID(id string) *Builder {
	b.registered.TokenID = id
	return b
}

// GenerateTokenID sets the jti claim to a fresh random UUID.
func (b *Builder) GenerateTokenID() *Builder {
	b.registered.TokenID = uuid.NewString()
	return b
}

// Claim adds an extension claim from a native Go value. Using a registered
// name here surfaces as ErrCodeSchemaConflict at Build time.
func (b *Builder) Claim(name string, value any) *Builder {
	converted, err := ValueOf(value)
	if err != nil {
		if b.err == nil {
			b.err = newClaimError(ErrCodeMalformedClaim, name, err)
		}
		return b
	}
	b.extensions.Set(name, converted)
	return b
}

// Build assembles the ClaimsSet, reporting the first collected error.
func (b *Builder) Build() (*ClaimsSet, error) {
	if b.err != nil {
		return nil, b.err
	}
	return New(b.registered, b.extensions)
}
