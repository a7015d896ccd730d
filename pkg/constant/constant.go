package constant

// Registration policy. Adjust here, not in the validation code.
const (
	MinNameLength     = 4
	MinPasswordLength = 6
)

const BearerScheme = "Bearer"

// Fiber locals keys set by the auth middleware.
const (
	LocalsClaimsKey       = "claims"
	LocalsRefreshTokenKey = "refresh_token"
)
