package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	KeyUserID   = "user_id"
	KeyUserName = "user_name"
	KeyUserRole = "user_role"
	KeyLoggedIn = "logged_in"
)
