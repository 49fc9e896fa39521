package userservice

import (
	"context"
	"database/sql"
)

func (m *DBModel) addUserPermission(tx *sql.Tx, ctx context.Context, id int, permissions ...Permission) error {
	for _, p := range permissions {
		_, err := tx.ExecContext(ctx, "INSERT INTO user_permissions (user_id, permission) VALUES ($1, $2)", id, p)
		if err != nil {
			return err
		}
	}

	return nil
}

// CanEditUser is the account-management rule: a user may edit or delete a
// target account iff it is their own, or they are staff. Note the asymmetry
// with content entities, which are strictly owner-only.
func CanEditUser(actor, target *User) bool {
	if actor == nil || target == nil {
		return false
	}
	if actor.IsAnonymous() {
		return false
	}
	if actor.ID == target.ID {
		return true
	}
	return actor.IsStaff
}
