package constants

import "time"

// SuperAdminUsername is the reserved login handle with unrestricted
// management rights. Recognized by identity, not by the role column.
const SuperAdminUsername = "nkc"

// Session cookie settings.
const (
	SessionCookieName = "session_token"
	SessionTTL        = 24 * time.Hour
)

// ContextKeyIdentity is the gin context key the auth middleware stores the
// verified identity under.
const ContextKeyIdentity = "identity"

// MinPasswordLength is the floor enforced on account creation and password
// changes.
const MinPasswordLength = 4
