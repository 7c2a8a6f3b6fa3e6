package store

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Phirakan/go-inventory/errs"
	"github.com/Phirakan/go-inventory/models"
	"github.com/Phirakan/go-inventory/utils"
)

// Accounts stores users and checks their credentials.
type Accounts struct {
	db   *gorm.DB
	cost int
}

// NewAccounts returns an account store hashing passwords at bcrypt.DefaultCost.
func NewAccounts(db *gorm.DB) *Accounts {
	return &Accounts{db: db, cost: bcrypt.DefaultCost}
}

// WithCost returns a copy that hashes at the given bcrypt cost.
func (a *Accounts) WithCost(cost int) *Accounts {
	return &Accounts{db: a.db, cost: cost}
}

// Create adds a user. The role defaults to staff.
func (a *Accounts) Create(ctx context.Context, in models.NewUser) (models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return models.User{}, errs.Validation("All fields are required")
	}
	role := in.Role
	if role == "" {
		role = models.RoleStaff
	}
	if !role.Valid() {
		return models.User{}, errs.Validation("Invalid role")
	}

	hashed, err := utils.HashPassword(in.Password, a.cost)
	if err != nil {
		return models.User{}, errs.Internal("hash password", err)
	}

	user := models.User{Username: username, Email: email, Password: hashed, Role: role}
	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return errs.Validation("Email already exists")
		}
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return errs.Validation("Username already exists")
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errs.Validation("User already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return models.User{}, internal("create user", err)
	}
	return user, nil
}

// Authenticate returns the user with the given email when the password matches.
func (a *Accounts) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	var user models.User
	err := a.db.WithContext(ctx).Where("email = ?", strings.TrimSpace(email)).First(&user).Error
	if err != nil && !isNotFound(err) {
		return models.User{}, internal("find user", err)
	}
	if err != nil || !utils.CheckPassword(user.Password, password) {
		return models.User{}, errs.Auth("Invalid email or password")
	}
	return user, nil
}

// Get returns one user.
func (a *Accounts) Get(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := a.db.WithContext(ctx).First(&user, id).Error
	if isNotFound(err) {
		return user, errs.NotFound("User not found")
	}
	return user, internal("get user", err)
}

// UpdateRole changes a user's role.
func (a *Accounts) UpdateRole(ctx context.Context, id uint, role models.Role) (models.User, error) {
	if !role.Valid() {
		return models.User{}, errs.Validation("Invalid role")
	}
	var user models.User
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			if isNotFound(err) {
				return errs.NotFound("User not found")
			}
			return err
		}
		user.Role = role
		return tx.Model(&user).Update("role", role).Error
	})
	if err != nil {
		return models.User{}, internal("update role", err)
	}
	return user, nil
}

// Ensure creates the user unless one with the same email already exists.
func (a *Accounts) Ensure(ctx context.Context, in models.NewUser) (models.User, bool, error) {
	var existing models.User
	err := a.db.WithContext(ctx).Where("email = ?", strings.TrimSpace(in.Email)).First(&existing).Error
	if err == nil {
		return existing, false, nil
	}
	if !isNotFound(err) {
		return models.User{}, false, internal("find user", err)
	}
	user, err := a.Create(ctx, in)
	if err != nil {
		return models.User{}, false, err
	}
	return user, true, nil
}
