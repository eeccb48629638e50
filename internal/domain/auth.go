package domain

import "time"

// Session is the locally persisted login state. At most one exists per device.
type Session struct {
	AccessToken  string
	RefreshToken string
	PushToken    string
	UserID       string
}

func (s Session) LoggedIn() bool {
	return s.AccessToken != "" || s.RefreshToken != ""
}

// Credentials is what a successful login or refresh hands back.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	// AccessExpiresIn is the server-advertised lifetime; zero when omitted.
	AccessExpiresIn time.Duration
	UserID          string
}

// TokenKey names one entry of the persisted session.
type TokenKey string

const (
	TokenAccess  TokenKey = "accessToken"
	TokenRefresh TokenKey = "refreshToken"
	TokenUserID  TokenKey = "userId"
	TokenPush    TokenKey = "pushToken"
)

// SessionKeys lists every key cleared on logout.
var SessionKeys = []TokenKey{TokenAccess, TokenRefresh, TokenUserID, TokenPush}
