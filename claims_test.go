package claimsx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireErrorCode(t *testing.T, err error, code ErrorCode, claim string) {
	t.Helper()
	var claimsErr *Error
	require.ErrorAs(t, err, &claimsErr)
	assert.Equal(t, code, claimsErr.Code)
	if claim != "" {
		assert.Equal(t, claim, claimsErr.Claim)
	}
}

func TestNew_SchemaConflict(t *testing.T) {
	for _, reserved := range []string{"iss", "sub", "aud", "exp", "nbf", "iat", "jti"} {
		extensions := NewDocument()
		extensions.Set("email", String("user@example.com"))
		extensions.Set(reserved, String("anything"))

		_, err := New(Registered{}, extensions)
		requireErrorCode(t, err, ErrCodeSchemaConflict, reserved)
	}
}

func TestNew_ConflictRegardlessOfValueType(t *testing.T) {
	extensions := NewDocument()
	extensions.Set("exp", Bool(true))

	_, err := New(Registered{}, extensions)
	requireErrorCode(t, err, ErrCodeSchemaConflict, "exp")
}

func TestNew_RejectsPreEpochTimestamp(t *testing.T) {
	_, err := New(Registered{ExpiresAt: time.Unix(-1, 0)}, nil)
	requireErrorCode(t, err, ErrCodeMalformedClaim, "exp")
}

func TestClaimsSet_Accessors(t *testing.T) {
	extensions := NewDocument()
	extensions.Set("email", String("user@example.com"))

	set, err := New(Registered{
		Issuer:    "https://issuer.example.com",
		Subject:   "user-1",
		Audience:  NewAudience("api", "web"),
		ExpiresAt: time.Unix(1696118400, 0),
		TokenID:   "token-1",
	}, extensions)
	require.NoError(t, err)

	issuer, ok := set.Issuer()
	require.True(t, ok)
	assert.Equal(t, "https://issuer.example.com", issuer)

	subject, ok := set.Subject()
	require.True(t, ok)
	assert.Equal(t, "user-1", subject)

	exp, ok := set.Expiration()
	require.True(t, ok)
	assert.Equal(t, time.Unix(1696118400, 0).UTC(), exp)

	_, ok = set.NotBefore()
	assert.False(t, ok)
	_, ok = set.IssuedAt()
	assert.False(t, ok)

	id, ok := set.TokenID()
	require.True(t, ok)
	assert.Equal(t, "token-1", id)

	email, ok := set.Extension("email")
	require.True(t, ok)
	assert.Equal(t, String("user@example.com"), email)

	assert.True(t, set.Has("aud"))
	assert.True(t, set.Has("email"))
	assert.False(t, set.Has("nbf"))
	assert.False(t, set.Has("role"))
}

func TestClaimsSet_ExtensionsAreACopy(t *testing.T) {
	extensions := NewDocument()
	extensions.Set("email", String("user@example.com"))

	set, err := New(Registered{Subject: "user-1"}, extensions)
	require.NoError(t, err)

	// mutating either the input or the returned view leaves the set alone
	extensions.Set("role", String("admin"))
	view := set.Extensions()
	view.Set("role", String("admin"))

	assert.False(t, set.Has("role"))
}

func TestClaimsSet_EqualIgnoresExtensionOrder(t *testing.T) {
	first := NewDocument()
	first.Set("email", String("user@example.com"))
	first.Set("role", String("admin"))

	second := NewDocument()
	second.Set("role", String("admin"))
	second.Set("email", String("user@example.com"))

	left, err := New(Registered{Subject: "user-1"}, first)
	require.NoError(t, err)
	right, err := New(Registered{Subject: "user-1"}, second)
	require.NoError(t, err)

	assert.True(t, left.Equal(right))

	other, err := New(Registered{Subject: "user-2"}, second)
	require.NoError(t, err)
	assert.False(t, left.Equal(other))
}

func TestAudience(t *testing.T) {
	single := NewSingleAudience("api")
	assert.True(t, single.IsSingle())
	assert.Equal(t, []string{"api"}, single.Values())
	assert.True(t, single.Contains("api"))
	assert.False(t, single.Contains("web"))

	set := NewAudience("api", "web")
	assert.False(t, set.IsSingle())
	assert.True(t, set.Contains("web"))

	// equality is order-insensitive set membership
	assert.True(t, NewAudience("api", "web").Equal(NewAudience("web", "api")))
	assert.False(t, NewAudience("api").Equal(NewAudience("api", "web")))
	// multiplicity affects encoding, not logical equality
	assert.True(t, NewSingleAudience("api").Equal(NewAudience("api")))

	var absent *Audience
	assert.False(t, absent.Contains("api"))
	assert.True(t, absent.Equal(nil))
	assert.False(t, absent.Equal(NewAudience("api")))
}

func TestBuilder(t *testing.T) {
	now := time.Unix(1696118400, 0)

	set, err := NewBuilder().
		Issuer("https://issuer.example.com").
		Subject("user-1").
		Audience("api", "web").
		IssuedAt(now).
		NotBefore(now.Add(-time.Minute)).
		Expiration(now.Add(time.Hour)).
		TokenID("token-1").
		Claim("email", "user@example.com").
		Claim("admin", true).
		Build()
	require.NoError(t, err)

	subject, ok := set.Subject()
	require.True(t, ok)
	assert.Equal(t, "user-1", subject)

	exp, ok := set.Expiration()
	require.True(t, ok)
	assert.Equal(t, now.Add(time.Hour).UTC(), exp)

	admin, ok := set.Extension("admin")
	require.True(t, ok)
	assert.Equal(t, Bool(true), admin)
}

func TestBuilder_GenerateTokenID(t *testing.T) {
	set, err := NewBuilder().Subject("user-1").GenerateTokenID().Build()
	require.NoError(t, err)

	id, ok := set.TokenID()
	require.True(t, ok)
	assert.NotEmpty(t, id)

	other, err := NewBuilder().Subject("user-1").GenerateTokenID().Build()
	require.NoError(t, err)
	otherID, _ := other.TokenID()
	assert.NotEqual(t, id, otherID)
}

func TestBuilder_RegisteredNameAsClaim(t *testing.T) {
	_, err := NewBuilder().Subject("user-1").Claim("exp", 1000).Build()
	requireErrorCode(t, err, ErrCodeSchemaConflict, "exp")
}

func TestBuilder_UnsupportedClaimValue(t *testing.T) {
	_, err := NewBuilder().Claim("bad", struct{ X int }{1}).Build()
	requireErrorCode(t, err, ErrCodeMalformedClaim, "bad")
}
