package globals

// Context keys
type ContextKey string

const (
	UserIDKey   ContextKey = "userId"
	UserTypeKey ContextKey = "userType"
)
