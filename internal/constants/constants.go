package constants

type ContextKey string

const (
	// RequestIDKey request id 放在 context 的 key
	RequestIDKey ContextKey = "request_id"
	// UserIDKey 登入者 user id 放在 context 的 key
	UserIDKey ContextKey = "user_id"
	// IsAdminKey 是否為管理員
	IsAdminKey ContextKey = "is_admin"

	// SessionName session cookie 名稱
	SessionName = "shoeshop_session"
)
