package claimsx

import "context"

type verifiedClaimsKey struct{}

// VerifiedClaims represents a claims set that passed validation, stored in a
// request context for downstream consumers.
type VerifiedClaims struct {
	Claims    *ClaimsSet
	Synthetic bool
}

// BindVerifiedClaims stores verified claims inside the context for downstream consumers.
func BindVerifiedClaims(ctx context.Context, claims VerifiedClaims) context.Context {
	return context.WithValue(ctx, verifiedClaimsKey{}, claims)
}

// VerifiedClaimsFromContext retrieves verified claims previously stored in the context.
func VerifiedClaimsFromContext(ctx context.Context) (VerifiedClaims, bool) {
	if ctx == nil {
		return VerifiedClaims{}, false
	}
	value := ctx.Value(verifiedClaimsKey{})
	if value == nil {
		return VerifiedClaims{}, false
	}
	claims, ok := value.(VerifiedClaims)
	return claims, ok
}
