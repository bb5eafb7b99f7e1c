package config

// AuthConfig contains configuration for the request ownership check.
//
// Authentication itself is delegated to the hosting platform; this only
// verifies that the bearer token's subject matches the user identifier a
// request claims to act for, mirroring the row-level policies enforced by
// the database.
type AuthConfig struct {
	// JWTSecret is the HMAC secret used to verify platform-issued tokens.
	// When empty the ownership check is disabled (development mode).
	JWTSecret string `env:"AUTH_JWT_SECRET"`
}

// OwnershipCheckEnabled returns true when bearer tokens should be verified.
func (a *AuthConfig) OwnershipCheckEnabled() bool {
	return a.JWTSecret != ""
}
