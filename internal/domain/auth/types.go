package auth

// Config drives identity resolution. An empty Secret disables signature
// verification, which is only meant for local development behind a trusted proxy.
type Config struct {
	Secret string
}

// Identity is the authenticated caller.
type Identity struct {
	UserID string
}
