package services

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"taskboard/internal/errors"
	"taskboard/internal/logging"
	"taskboard/internal/repository/sqlstore"
	"taskboard/internal/validation"
)

const invalidCredentials = "Invalid username or password"

// accountServiceImpl implements the AccountService interface
type accountServiceImpl struct {
	repo          sqlstore.Repository
	userValidator *validation.UserValidator
	hashCost      int
	clock         Clock
	log           *logging.Logger
}

// NewAccountService creates a new AccountService. A hashCost of zero uses bcrypt.DefaultCost.
func NewAccountService(repo sqlstore.Repository, v *validation.Validator, hashCost int, clock Clock) AccountService {
	if hashCost == 0 {
		hashCost = bcrypt.DefaultCost
	}
	if clock == nil {
		clock = time.Now
	}
	return &accountServiceImpl{
		repo:          repo,
		userValidator: validation.NewUserValidator(v),
		hashCost:      hashCost,
		clock:         clock,
		log:           logging.New("accounts"),
	}
}

func toAccount(u *sqlstore.User) *Account {
	return &Account{ID: u.ID, Username: u.Username, Email: u.Email}
}

// taken reports whether a lookup found a row. Not-found is the expected miss; other errors propagate.
func taken(u *sqlstore.User, err error) (bool, error) {
	if err == nil {
		return u != nil, nil
	}
	if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
		return false, nil
	}
	return false, err
}

func conflict(field, value, message string) error {
	err := errors.NewConflictError("user", field, value)
	err.Message = message
	return err
}

// Signup registers a new account after checking that username and email are free
func (a *accountServiceImpl) Signup(ctx context.Context, form validation.SignupForm) (*Account, error) {
	form, err := a.userValidator.ValidateSignup(form)
	if err != nil {
		return nil, asValidationFailure(err)
	}

	if exists, err := taken(a.repo.GetUserByUsername(ctx, form.Username)); err != nil {
		return nil, err
	} else if exists {
		return nil, conflict("username", form.Username, "Username already exists")
	}
	if exists, err := taken(a.repo.GetUserByEmail(ctx, form.Email)); err != nil {
		return nil, err
	} else if exists {
		return nil, conflict("email", form.Email, "Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), a.hashCost)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeInternal, "failed to hash password")
	}

	id, err := a.repo.CreateUser(ctx, form.Username, form.Email, string(hash), a.clock())
	if err != nil {
		return nil, err
	}

	a.log.Info("user registered", "user_id", id, "username", form.Username)
	return &Account{ID: id, Username: form.Username, Email: form.Email}, nil
}

// Login verifies credentials. Unknown users and wrong passwords get the same error.
func (a *accountServiceImpl) Login(ctx context.Context, username, password string) (*Account, error) {
	username, err := a.userValidator.ValidateLogin(username, password)
	if err != nil {
		return nil, asValidationFailure(err)
	}

	user, err := a.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			a.log.Warn("failed login", "username", username, "reason", "unknown user")
			return nil, errors.NewUnauthorizedError(invalidCredentials)
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		a.log.Warn("failed login", "username", username, "reason", "bad password")
		return nil, errors.NewUnauthorizedError(invalidCredentials)
	}

	a.log.Info("user logged in", "user_id", user.ID, "username", user.Username)
	return toAccount(user), nil
}

// GetAccount loads the account behind a session
func (a *accountServiceImpl) GetAccount(ctx context.Context, userID int64) (*Account, error) {
	user, err := a.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toAccount(user), nil
}

// FindByUsername looks an account up by exact username
func (a *accountServiceImpl) FindByUsername(ctx context.Context, username string) (*Account, error) {
	user, err := a.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return toAccount(user), nil
}

// verifyPassword loads the user and checks their current password
func (a *accountServiceImpl) verifyPassword(ctx context.Context, userID int64, password string) (*sqlstore.User, error) {
	user, err := a.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errors.NewUnauthorizedError("Current password is incorrect")
	}
	return user, nil
}

// ChangeUsername renames the account after verifying the current password
func (a *accountServiceImpl) ChangeUsername(ctx context.Context, userID int64, currentPassword, newUsername string) (*Account, error) {
	newUsername, err := a.userValidator.ValidateUsernameChange(currentPassword, newUsername)
	if err != nil {
		return nil, asValidationFailure(err)
	}

	user, err := a.verifyPassword(ctx, userID, currentPassword)
	if err != nil {
		return nil, err
	}

	if newUsername != user.Username {
		existing, err := a.repo.GetUserByUsername(ctx, newUsername)
		if exists, err := taken(existing, err); err != nil {
			return nil, err
		} else if exists && existing.ID != userID {
			return nil, conflict("username", newUsername, "Username already taken")
		}
	}

	if err := a.repo.UpdateUsername(ctx, userID, newUsername); err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeConflict) {
			return nil, conflict("username", newUsername, "Username already taken")
		}
		return nil, err
	}

	a.log.Info("username changed", "user_id", userID, "from", user.Username, "to", newUsername)
	user.Username = newUsername
	return toAccount(user), nil
}

// ChangePassword stores a new hash after verifying the current password
func (a *accountServiceImpl) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if err := a.userValidator.ValidatePasswordChange(currentPassword, newPassword); err != nil {
		return asValidationFailure(err)
	}

	if _, err := a.verifyPassword(ctx, userID, currentPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), a.hashCost)
	if err != nil {
		return errors.WrapError(err, errors.ErrorTypeInternal, "failed to hash password")
	}

	if err := a.repo.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		return err
	}

	a.log.Info("password changed", "user_id", userID)
	return nil
}
