package services

import (
	"context"
	"errors"
	"strings"

	"engilearn/backend/apperrors"
	"engilearn/backend/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AccountService handles registration, credential checks and profile edits.
type AccountService struct {
	db *gorm.DB
	options
}

func NewAccountService(db *gorm.DB, opts ...Option) *AccountService {
	return &AccountService{db: db, options: newOptions(opts)}
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileInput struct {
	Username  *string `json:"username" validate:"omitempty,min=3,max=50,alphanum"`
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,url,max=500"`
	Bio       *string `json:"bio" validate:"omitempty,max=1000"`
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	db := s.db.WithContext(ctx)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var taken int64
	if err := db.Model(&models.User{}).Where("email = ? OR username = ?", email, in.Username).Count(&taken).Error; err != nil {
		return nil, apperrors.FromDB(err, "user")
	}
	if taken > 0 {
		return nil, apperrors.Conflict("user with this email or username already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Username:     in.Username,
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		return nil, apperrors.FromDB(err, "user")
	}
	s.logger.Printf("Registered user %s (%s)", user.ID, user.Username)
	return user, nil
}

// Authenticate checks credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *AccountService) Authenticate(ctx context.Context, in LoginInput) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(in.Email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Unauthorized("invalid credentials")
	}
	if err != nil {
		return nil, apperrors.FromDB(err, "user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}
	return &user, nil
}

func (s *AccountService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, apperrors.FromDB(err, "user")
	}
	return &user, nil
}

// UpdateProfile changes the editable profile fields. XP, level and streak are
// not editable here.
func (s *AccountService) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := lockUser(tx, userID)
		if err != nil {
			return apperrors.FromDB(err, "user")
		}
		user = *u

		updates := map[string]any{}
		if in.Username != nil && *in.Username != user.Username {
			var taken int64
			if err := tx.Model(&models.User{}).Where("username = ? AND id <> ?", *in.Username, userID).Count(&taken).Error; err != nil {
				return err
			}
			if taken > 0 {
				return apperrors.Conflict("username already taken")
			}
			updates["username"] = *in.Username
			user.Username = *in.Username
		}
		if in.AvatarURL != nil {
			updates["avatar_url"] = *in.AvatarURL
			user.AvatarURL = *in.AvatarURL
		}
		if in.Bio != nil {
			updates["bio"] = *in.Bio
			user.Bio = *in.Bio
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
	})
	if err != nil {
		return nil, apperrors.FromDB(err, "user")
	}
	return &user, nil
}
