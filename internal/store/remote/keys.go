package remote

const (
	// KeyPrefixWebsites is the prefix for per-user website keyspaces.
	KeyPrefixWebsites = "webspot:websites:"
)

// WebsiteKey returns the Redis key for a user's website record.
func WebsiteKey(userID, id string) string {
	return KeyPrefixWebsites + userID + ":" + id
}

// AllWebsitesKey returns the Redis key for the set of a user's record ids.
func AllWebsitesKey(userID string) string {
	return KeyPrefixWebsites + userID + ":all"
}

// UserIDFromAllKey extracts the user id from an id-set key.
func UserIDFromAllKey(key string) (string, bool) {
	const suffix = ":all"
	if len(key) <= len(KeyPrefixWebsites)+len(suffix) {
		return "", false
	}
	if key[:len(KeyPrefixWebsites)] != KeyPrefixWebsites || key[len(key)-len(suffix):] != suffix {
		return "", false
	}
	return key[len(KeyPrefixWebsites) : len(key)-len(suffix)], true
}
