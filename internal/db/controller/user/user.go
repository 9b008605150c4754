// Package user provides account lookups and the user profile assembly.
package user

import (
	"errors"

	"gorm.io/gorm"

	"github.com/webshield/webshield/internal/db/controller/subscription"
	"github.com/webshield/webshield/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrUserNotFound is returned when no user exists for the given id.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when a profile update targets an email owned
	// by another user.
	ErrEmailTaken = errors.New("email already in use")
)

// Profile is the assembled user profile view.
type Profile struct {
	ID       uint64          `json:"id"`
	FullName string          `json:"fullName"`
	Email    string          `json:"email"`
	Avatar   string          `json:"avatar,omitempty"`
	Plan     string          `json:"plan"`
	PlanType models.PlanType `json:"planType"`
	Credits  float64         `json:"credits"`
	IsAdmin  bool            `json:"isAdmin"`
}

// ProfileUpdate is the partial profile update shape. Nil fields are left
// unchanged. FullName is preferred over the legacy Name key when both are
// provided.
type ProfileUpdate struct {
	FullName *string `json:"fullName"`
	Name     *string `json:"name"`
	Avatar   *string `json:"avatar"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

// Get retrieves a user by id.
func Get(db *gorm.DB, id uint64) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var u models.User

	result := db.First(&u, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	return &u, nil
}

// GetByEmail retrieves a user by exact email match.
func GetByEmail(db *gorm.DB, email string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var u models.User

	result := db.Where("email = ?", email).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	return &u, nil
}

// GetProfile assembles the profile view for a user, resolving the plan label
// from the active subscription.
func GetProfile(db *gorm.DB, userID uint64) (*Profile, error) {
	u, err := Get(db, userID)
	if err != nil {
		return nil, err
	}

	return buildProfile(db, u)
}

// UpdateProfile applies a partial profile update and returns the refreshed
// profile. Changing the email to one owned by another user fails with
// ErrEmailTaken and leaves the record untouched.
func UpdateProfile(db *gorm.DB, userID uint64, payload ProfileUpdate) (*Profile, error) {
	u, err := Get(db, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}

	if payload.Email != nil && *payload.Email != u.Email {
		existing, err := GetByEmail(db, *payload.Email)
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return nil, err
		}

		if existing != nil && existing.ID != userID {
			return nil, ErrEmailTaken
		}

		updates["email"] = *payload.Email
		u.Email = *payload.Email
	}

	if name := payload.nameValue(); name != nil {
		updates["name"] = *name
		u.Name = *name
	}

	if payload.Avatar != nil {
		updates["avatar"] = *payload.Avatar
		u.Avatar = *payload.Avatar
	}

	if len(updates) > 0 {
		if err := db.Model(u).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return buildProfile(db, u)
}

func (p *ProfileUpdate) nameValue() *string {
	if p.FullName != nil {
		return p.FullName
	}

	return p.Name
}

func buildProfile(db *gorm.DB, u *models.User) (*Profile, error) {
	planType := models.PlanFree

	sub, err := subscription.Active(db, u.ID)
	if err != nil && !errors.Is(err, subscription.ErrNoActiveSubscription) {
		return nil, err
	}

	if sub != nil {
		planType = sub.Plan
	}

	return &Profile{
		ID:       u.ID,
		FullName: u.FullName(),
		Email:    u.Email,
		Avatar:   u.Avatar,
		Plan:     subscription.PlanLabel(planType),
		PlanType: planType,
		Credits:  u.Credits,
		IsAdmin:  u.IsAdmin,
	}, nil
}
