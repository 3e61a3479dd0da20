package session

const (
	// KeyPrefixUser is the prefix for user account keys.
	KeyPrefixUser = "webspot:user:"
	// KeyPrefixSession is the prefix for session token keys.
	KeyPrefixSession = "webspot:session:"

	// GuestUserKey is the local key-value slot holding the guest
	// session marker. Its presence switches storage routing to the
	// guest backend.
	GuestUserKey = "webspot:guest:user"
)

// UserKey returns the Redis key for a user account by email.
func UserKey(email string) string {
	return KeyPrefixUser + email
}

// SessionKey returns the Redis key for a session token.
func SessionKey(token string) string {
	return KeyPrefixSession + token
}
