package internal

const (
	COOKIE_ACCESS_TOKEN_NAME = "reclaim_access_token"
	COOKIE_REDIRECT_NAME     = "reclaim_redirect"
)
