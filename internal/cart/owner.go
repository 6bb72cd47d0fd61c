package cart

import (
	"github.com/google/uuid"

	pkgerrors "github.com/velmarket/storefront-backend/pkg/errors"
)

// Owner identifies who a cart belongs to: an authenticated user or an
// anonymous browser session. Exactly one side is set.
type Owner struct {
	UserID     *uuid.UUID
	SessionKey *string
}

// OwnerForUser builds the owner identity for an authenticated user.
func OwnerForUser(userID uuid.UUID) Owner {
	return Owner{UserID: &userID}
}

// OwnerForSession builds the owner identity for an anonymous session key.
func OwnerForSession(sessionKey string) Owner {
	return Owner{SessionKey: &sessionKey}
}

// Validate rejects owners with neither or both sides set.
func (o Owner) Validate() error {
	hasUser := o.UserID != nil && *o.UserID != uuid.Nil
	hasSession := o.SessionKey != nil && *o.SessionKey != ""
	if hasUser == hasSession {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart owner must be a user or a session, not both")
	}
	return nil
}
