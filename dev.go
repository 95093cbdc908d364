package claimsx

// DevBypassClaims holds attributes used when issuing synthetic claims in dev mode.
type DevBypassClaims struct {
	Subject  string
	Issuer   string
	Audience *Audience
}

// ToVerifiedClaims converts the dev bypass configuration into verified claims.
func (d DevBypassClaims) ToVerifiedClaims() VerifiedClaims {
	// no extensions, so construction cannot conflict
	set, _ := New(Registered{
		Issuer:   d.Issuer,
		Subject:  d.Subject,
		Audience: d.Audience,
	}, nil)
	return VerifiedClaims{
		Claims:    set,
		Synthetic: true,
	}
}

// DefaultDevBypassClaims returns a baseline set of claims suitable for local development.
func DefaultDevBypassClaims(audience string) DevBypassClaims {
	aud := audience
	if aud == "" {
		aud = "https://dev.local"
	}
	return DevBypassClaims{
		Subject:  "dev-bypass",
		Issuer:   "claimsx.dev",
		Audience: NewSingleAudience(aud),
	}
}
