// internal/domain/models/adminuser.go
package models

import "time"

// AdminUser is one administrator account, keyed by email. Membership in
// the admin_users collection is what makes an email an admin; faculty
// have no document here.
//
// PasswordHash is set only for local (password) sign-in accounts such as
// the bootstrap superadmin; OAuth admins leave it nil.
type AdminUser struct {
	Email        string  `bson:"_id" json:"email"`
	Name         string  `bson:"name" json:"name"`
	PasswordHash *string `bson:"password_hash,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
