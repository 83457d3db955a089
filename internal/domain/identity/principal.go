package identity

// Principal is the authenticated caller resolved by token introspection.
type Principal struct {
	UserID   string
	Username string
}
