package secrets

import "strings"

// IsKeychainLockedError reports whether an error message from the macOS
// keychain indicates the keychain is locked. errSecInteractionNotAllowed
// (-25308) is what Security.framework returns when a headless process asks
// for an item in a locked keychain.
func IsKeychainLockedError(message string) bool {
	return strings.Contains(message, "-25308") ||
		strings.Contains(message, "errSecInteractionNotAllowed") ||
		strings.Contains(message, "User interaction is not allowed")
}
