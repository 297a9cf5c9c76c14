package user

import (
	"strings"
	"unicode/utf8"

	"github.com/MikeMC777/tienda-ecom/internal/apperr"
	"github.com/MikeMC777/tienda-ecom/internal/cart"
)

const MinPasswordLength = 7

var (
	ErrNotFound         = apperr.New(apperr.KindNotFound, "user not found")
	ErrUsernameRequired = apperr.New(apperr.KindValidation, "username is required")
	ErrUsernameTaken    = apperr.New(apperr.KindValidation, "username already taken")
	ErrPasswordTooShort = apperr.New(apperr.KindValidation, "password must be at least 7 characters")
	ErrPasswordMismatch = apperr.New(apperr.KindValidation, "password and confirmPassword differ")
)

// User owns exactly one cart. Password only ever holds a hash.
type User struct {
	ID       int64      `json:"id"`
	Username string     `json:"username"`
	Password string     `json:"-"`
	Cart     *cart.Cart `json:"cart"`
}

func (u *User) Owner() cart.Owner { return cart.Owner{ID: u.ID, Username: u.Username} }

// CreateUserRequest is the registration payload.
// swagger:model CreateUserRequest
type CreateUserRequest struct {
	Username        string `json:"username"        example:"mickey_mouse"`
	Password        string `json:"password"        example:"mickey_mouse_password"`
	ConfirmPassword string `json:"confirmPassword" example:"mickey_mouse_password"`
}

// Validate checks the request without touching any collaborator. Length is
// counted in characters and runs before the confirmation check.
func (r CreateUserRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return ErrUsernameRequired
	}
	if utf8.RuneCountInString(r.Password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if r.Password != r.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}
