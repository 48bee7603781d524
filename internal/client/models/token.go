package models

// AuthToken is the login response. Only AccessToken is used by the session;
// the refresh token is received but never exchanged.
type AuthToken struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// LoginCredentials is the body of a login request.
type LoginCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the body of a registration request.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
