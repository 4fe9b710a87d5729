package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PaulBabatuyi/chatStore-gRPC/internal/normalize"
	"github.com/go-playground/validator/v10"
)

// Identity is the minimal user returned by a successful credential check.
type Identity struct {
	ID    string
	Email string
}

// UserRecord is what the user directory stores for a credential check.
type UserRecord struct {
	ID       string
	Email    string
	Password string // salted digest, see Digest
	Salt     string
}

// UserDirectory looks users up by normalized email. A missing user is
// reported as (nil, nil).
type UserDirectory interface {
	LookupByEmail(ctx context.Context, email string) (*UserRecord, error)
}

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// Authenticator checks email/password pairs against a UserDirectory.
type Authenticator struct {
	users    UserDirectory
	validate *validator.Validate
}

func NewAuthenticator(users UserDirectory) *Authenticator {
	return &Authenticator{users: users, validate: validator.New()}
}

// ValidateCredentials applies the same input rules Authorize uses and
// reports which field is malformed.
func (a *Authenticator) ValidateCredentials(email, password string) error {
	in := credentials{Email: normalize.Email(email), Password: password}
	if err := a.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid %s: failed %q", strings.ToLower(verrs[0].Field()), verrs[0].Tag())
		}
		return err
	}
	return nil
}

// Authorize returns the matching identity, or nil when the credentials are
// malformed, the user does not exist or the password is wrong. These
// cases are indistinguishable to the caller. A non-nil error
// means the directory itself failed.
func (a *Authenticator) Authorize(ctx context.Context, email, password string) (*Identity, error) {
	in := credentials{Email: normalize.Email(email), Password: password}
	if a.validate.Struct(in) != nil {
		return nil, nil
	}

	user, err := a.users.LookupByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	if !CheckPassword(user.Password, user.Salt, in.Password) {
		return nil, nil
	}
	return &Identity{ID: user.ID, Email: user.Email}, nil
}
