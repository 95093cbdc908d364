package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/bionicotaku/lingo-utils-claimsx"
)

func main() {
	var (
		defaultToken    = os.Getenv("CLAIMS_TOKEN")
		defaultIssuer   = os.Getenv("CLAIMS_ISSUER")
		defaultAudience = os.Getenv("CLAIMS_AUDIENCE")
		defaultSubject  = os.Getenv("CLAIMS_SUBJECT")
	)

	token := flag.String("token", defaultToken, "Compact JWT to inspect; signature is NOT verified (env CLAIMS_TOKEN)")
	issuer := flag.String("issuer", defaultIssuer, "Expected issuer (env CLAIMS_ISSUER)")
	audience := flag.String("audience", defaultAudience, "Expected audience (env CLAIMS_AUDIENCE)")
	subject := flag.String("subject", defaultSubject, "Expected subject (env CLAIMS_SUBJECT)")
	leeway := flag.Duration("leeway", 0, "Clock-skew tolerance for exp/nbf checks")
	required := flag.String("require", "", "Comma-separated claim names that must be present")
	flag.Parse()

	claims := resolveClaims(*token)

	opts := []claimsx.ValidateOption{claimsx.WithLeeway(*leeway)}
	if *issuer != "" {
		opts = append(opts, claimsx.WithIssuer(*issuer))
	}
	if *audience != "" {
		opts = append(opts, claimsx.WithAudience(*audience))
	}
	if *subject != "" {
		opts = append(opts, claimsx.WithSubject(*subject))
	}
	if names := splitNames(*required); len(names) > 0 {
		opts = append(opts, claimsx.WithRequiredClaims(names...))
	}

	if err := claimsx.Validate(claims, time.Now(), opts...); err != nil {
		log.Fatalf("validation failed: %v", err)
	}

	printClaims(claims)
}

// resolveClaims parses the supplied token, or falls back to synthetic dev
// claims when no token was given.
func resolveClaims(token string) *claimsx.ClaimsSet {
	if token == "" {
		log.Println("no token supplied; using dev bypass claims")
		return claimsx.DefaultDevBypassClaims("").ToVerifiedClaims().Claims
	}
	parsed, err := jwt.ParseInsecure([]byte(token))
	if err != nil {
		log.Fatalf("parse token: %v", err)
	}
	claims, err := claimsx.FromToken(parsed)
	if err != nil {
		log.Fatalf("convert claims: %v", err)
	}
	return claims
}

func splitNames(list string) []string {
	var names []string
	for _, name := range strings.Split(list, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}

func printClaims(claims *claimsx.ClaimsSet) {
	fmt.Println("== Claims Set Valid ==")
	if subject, ok := claims.Subject(); ok {
		fmt.Printf("subject      : %s\n", subject)
	}
	if issuer, ok := claims.Issuer(); ok {
		fmt.Printf("issuer       : %s\n", issuer)
	}
	if aud := claims.Audience(); aud != nil {
		fmt.Printf("audience     : %s\n", strings.Join(aud.Values(), ", "))
	}
	if exp, ok := claims.Expiration(); ok {
		fmt.Printf("expires_at   : %s\n", exp.Format(time.RFC3339))
	}
	if nbf, ok := claims.NotBefore(); ok {
		fmt.Printf("not_before   : %s\n", nbf.Format(time.RFC3339))
	}
	if iat, ok := claims.IssuedAt(); ok {
		fmt.Printf("issued_at    : %s\n", iat.Format(time.RFC3339))
	}
	if id, ok := claims.TokenID(); ok {
		fmt.Printf("token_id     : %s\n", id)
	}
	if extensions := claims.Extensions(); extensions.Len() > 0 {
		fmt.Println("extensions   :")
		for _, key := range extensions.Keys() {
			value, _ := extensions.Get(key)
			encoded, err := json.Marshal(value)
			if err != nil {
				log.Fatalf("encode claim %q: %v", key, err)
			}
			fmt.Printf("  %s: %s\n", key, encoded)
		}
	}
}
