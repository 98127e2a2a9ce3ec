package internal

const (
	COOKIE_ACCESS_TOKEN_NAME = "donaciones_access_token"
	COOKIE_REDIRECT_NAME     = "donaciones_redirect"
)
