package entity

type AuthState string

const (
	AuthUnknown              AuthState = "unknown"
	AuthOnLoginPage          AuthState = "on_login_page"
	AuthAuthenticating       AuthState = "authenticating"
	AuthAuthenticated        AuthState = "authenticated"
	AuthAlreadyAuthenticated AuthState = "already_authenticated"
)
