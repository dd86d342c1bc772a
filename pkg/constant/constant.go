package constant

const (
	TokenClassAccess  = "access"
	TokenClassRefresh = "refresh"
	TokenClassVerify  = "verify"
	TokenClassReset   = "reset"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

const MinPasswordLength = 8
