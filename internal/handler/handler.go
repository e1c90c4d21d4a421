package handler

import (
	"marketplace-service/internal/authz"
	"marketplace-service/internal/store"
	"marketplace-service/pkg/config"

	"gorm.io/gorm"
)

var adminEmail string

// Init wires handler-level configuration. Must be called before the
// routes are served.
func Init(cfg *config.Config) {
	adminEmail = cfg.Admin.Email
}

// resolveViewer builds the acting principal for a request. The viewer
// is identified by user_id; an id that does not resolve to a stored
// user is treated as anonymous. The second return reports admin status.
func resolveViewer(db *gorm.DB, userID uint) (authz.Principal, bool) {
	if userID == 0 {
		return authz.Principal{}, false
	}
	user, err := store.UserByID(db, userID)
	if err != nil {
		return authz.Principal{}, false
	}
	p := authz.Principal{ID: user.ID, Email: user.Email, Authenticated: true}
	return p, p.IsAdmin(adminEmail)
}
