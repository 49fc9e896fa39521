package userservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/plokkeri/plok/internal/common"
)

var (
	ErrAuthenticationFailure = fmt.Errorf("unauthorized access")

	// ErrNotPermitted is returned when the owner-or-staff rule rejects an
	// account operation. The handler layer maps it to a not-found page so
	// that unauthorized actors learn nothing about the target account.
	ErrNotPermitted = errors.New("not permitted")
)

func NewUserService(db *sql.DB, mb common.MessageProducer) *UserService {
	return &UserService{
		m:  newUserModel(db),
		mb: mb,
	}
}

// CreateUser registers a new account, stores an activation token and
// publishes a user.created event for the mail consumer. The plain token is
// returned so tests can activate without an inbox.
func (s *UserService) CreateUser(ctx context.Context, username, email, password string) (*string, error) {
	v := common.NewValidator()
	validateUsername(v, username)
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Username: username,
		Email:    email,
		Password: Password{Plain: password},
	}

	err := u.Password.set(u.Password.Plain)
	if err != nil {
		return nil, err
	}

	err = s.m.insertUser(ctx, &u)
	if err != nil {
		return nil, err
	}

	token, err := s.m.createToken(ctx, u.ID, ActivationTokenTime, TokenScopeActivate)
	if err != nil {
		return nil, err
	}

	data := struct {
		Email string
		Token string
	}{
		Email: u.Email,
		Token: token.Plain,
	}

	emailData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	err = s.mb.Publish(ctx, emailData, common.UserCreatedKey, common.UserExchange)
	if err != nil {
		return nil, err
	}

	return &token.Plain, nil
}

// ActivateUser flips the account to activated, burns the token and grants
// the blog:write permission, all in one transaction.
func (s *UserService) ActivateUser(ctx context.Context, token string) error {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return v.ValidationError()
	}

	hash := hashToken(token)

	user, err := s.m.getUserForToken(ctx, TokenScopeActivate, hash)
	if err != nil {
		return err
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	err = s.m.activateUserAccount(tx, ctx, user.ID, user.Version)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	err = s.m.deleteToken(tx, ctx, user.ID, TokenScopeActivate)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	err = s.m.addUserPermission(tx, ctx, user.ID, PermissionWriteBlog)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// AuthenticateUser checks a username/password pair. Unknown usernames and
// bad passwords both come back as ErrAuthenticationFailure.
func (s *UserService) AuthenticateUser(ctx context.Context, username, password string) (*User, error) {
	v := common.NewValidator()
	v.Check(username != "", "username", "must be provided")
	v.Check(password != "", "password", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getUserByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrAuthenticationFailure
		default:
			return nil, err
		}
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrAuthenticationFailure
	}

	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (*User, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getUserByID(ctx, id)
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	v := common.NewValidator()
	v.Check(username != "", "username", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getUserByUsername(ctx, username)
}

// ListUsers returns every account, username ascending.
func (s *UserService) ListUsers(ctx context.Context) ([]User, error) {
	return s.m.listUsers(ctx)
}

// UpdateUserName changes the target's first and last name. The actor must
// pass CanEditUser.
func (s *UserService) UpdateUserName(ctx context.Context, actor, target *User, firstName, lastName string) error {
	if !CanEditUser(actor, target) {
		return ErrNotPermitted
	}

	v := common.NewValidator()
	validateName(v, firstName, "first_name")
	validateName(v, lastName, "last_name")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.updateUserName(ctx, target.ID, firstName, lastName, target.Version)
}

// DeleteUser hard-deletes the target account. The actor must pass
// CanEditUser. Authored content cascades away at the database level.
func (s *UserService) DeleteUser(ctx context.Context, actor, target *User) error {
	if !CanEditUser(actor, target) {
		return ErrNotPermitted
	}

	return s.m.deleteUser(ctx, target.ID)
}

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser || u.ID == 0
}

func (u *User) IsActivated() bool {
	return u.Activated
}

func (u *User) HasPermission(permission Permission) bool {
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}

	return false
}

// FullName is what the profile page shows next to the username. Value
// receiver so templates can call it on ranged values.
func (u User) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return ""
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
