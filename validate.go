package claimsx

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/samber/lo"
)

// validatePolicy collects the recognized validation options.
type validatePolicy struct {
	leeway        time.Duration
	required      []string
	issuer        string
	checkIssuer   bool
	subject       string
	checkSubject  bool
	audience      string
	checkAudience bool
}

// ValidateOption customizes the policy for a single Validate call.
type ValidateOption func(*validatePolicy)

// WithLeeway sets the clock-skew tolerance applied symmetrically to the
// exp and nbf checks. The default is zero.
func WithLeeway(leeway time.Duration) ValidateOption {
	return func(p *validatePolicy) {
		p.leeway = leeway
	}
}

// WithRequiredClaims names claims, registered or extension, that must be
// present. Registered names are checked in RFC 7519 declaration order,
// remaining names in the order given here, so the reported MissingClaim is
// deterministic when several are absent.
func WithRequiredClaims(names ...string) ValidateOption {
	return func(p *validatePolicy) {
		p.required = append(p.required, names...)
	}
}

// WithIssuer requires the iss claim to equal issuer exactly.
func WithIssuer(issuer string) ValidateOption {
	return func(p *validatePolicy) {
		p.issuer = issuer
		p.checkIssuer = true
	}
}

// WithSubject requires the sub claim to equal subject exactly.
func WithSubject(subject string) ValidateOption {
	return func(p *validatePolicy) {
		p.subject = subject
		p.checkSubject = true
	}
}

// WithAudience requires audience to be a member of the aud claim, or to
// equal it when the claim is single-valued.
func WithAudience(audience string) ValidateOption {
	return func(p *validatePolicy) {
		p.audience = audience
		p.checkAudience = true
	}
}

// normalize clamps option values into their usable ranges and fixes the
// required-claim checking order.
func (p *validatePolicy) normalize() {
	if p.leeway < 0 {
		p.leeway = 0
	}
	p.required = canonicalRequired(p.required)
}

// canonicalRequired dedups the required names and orders them: registered
// names in RFC 7519 declaration order first, then extension names in the
// order the caller supplied them.
func canonicalRequired(names []string) []string {
	names = lo.Uniq(names)
	ordered := make([]string, 0, len(names))
	for _, name := range registeredNames {
		if lo.Contains(names, name) {
			ordered = append(ordered, name)
		}
	}
	for _, name := range names {
		if !IsRegisteredName(name) {
			ordered = append(ordered, name)
		}
	}
	return ordered
}

// Validate checks the claims set against the supplied policy at instant now.
// It is a pure function: the clock is injected, nothing is mutated, and
// identical arguments always produce the identical result.
//
// Checks run in a fixed order and the first failure wins: required claims,
// exp, nbf, expected issuer, expected subject, expected audience. A caller
// therefore always receives the same single failure reason even when several
// checks would fail.
func Validate(set *ClaimsSet, now time.Time, opts ...ValidateOption) error {
	policy := validatePolicy{}
	for _, opt := range opts {
		opt(&policy)
	}
	policy.normalize()

	for _, name := range policy.required {
		if !set.Has(name) {
			return newClaimError(ErrCodeMissingClaim, name, nil)
		}
	}
	if exp, ok := set.Expiration(); ok {
		if now.After(exp.Add(policy.leeway)) {
			return newError(ErrCodeExpired, fmt.Errorf("expired at %s", exp.Format(time.RFC3339)))
		}
	}
	if nbf, ok := set.NotBefore(); ok {
		if now.Before(nbf.Add(-policy.leeway)) {
			return newError(ErrCodeNotYetValid, fmt.Errorf("not valid before %s", nbf.Format(time.RFC3339)))
		}
	}
	if policy.checkIssuer {
		issuer, ok := set.Issuer()
		if !ok || !constantTimeEqual(issuer, policy.issuer) {
			return newClaimError(ErrCodeIssuerMismatch, ClaimIssuer, nil)
		}
	}
	if policy.checkSubject {
		subject, ok := set.Subject()
		if !ok || !constantTimeEqual(subject, policy.subject) {
			return newClaimError(ErrCodeSubjectMismatch, ClaimSubject, nil)
		}
	}
	if policy.checkAudience {
		if !set.Audience().Contains(policy.audience) {
			return newClaimError(ErrCodeAudienceMismatch, ClaimAudience, nil)
		}
	}
	return nil
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
