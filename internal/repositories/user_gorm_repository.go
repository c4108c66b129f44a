package repositories

import (
	"context"
	"fmt"
	"strings"

	"eventim/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User, card *models.Image) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insertImage(tx, card, "user", user.ID); err != nil {
			return err
		}
		if card != nil {
			user.DisabilityCardImageID = &card.ID
		}

		if err := tx.Create(user).Error; err != nil {
			return translate(err, "insert user")
		}

		if len(user.Marks) == 0 {
			return nil
		}
		codes := user.MarkCodes()
		var known int64
		if err := tx.Model(&models.DisabilityMark{}).Where("code IN ?", codes).Count(&known).Error; err != nil {
			return fmt.Errorf("check disability marks: %w", err)
		}
		if int(known) != len(codes) {
			return invalidReference("unknown disability mark in %v", codes)
		}
		links := make([]models.UserDisabilityMark, 0, len(codes))
		for _, code := range codes {
			links = append(links, models.UserDisabilityMark{UserID: user.ID, MarkCode: code})
		}
		if err := tx.Create(&links).Error; err != nil {
			return fmt.Errorf("insert user disability marks: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	email = strings.ToLower(strings.TrimSpace(email))
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("user with email %s", email))
	}
	if err := r.loadMarks(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("user with ID %s", id))
	}
	if err := r.loadMarks(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all users ordered by last name.
func (r *GORMUserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("last_name, first_name").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		if err := r.loadMarks(ctx, &users[i]); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// Delete removes a user together with their marks and cart.
func (r *GORMUserRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.UserDisabilityMark{}).Error; err != nil {
			return fmt.Errorf("failed to delete user marks: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete user cart: %w", err)
		}
		if err := tx.Where("entity_type = ? AND entity_id = ?", "user", id).Delete(&models.Image{}).Error; err != nil {
			return fmt.Errorf("failed to delete disability card: %w", err)
		}
		res := tx.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return translate(res.Error, "delete user")
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user with ID %s %w", id, ErrNotFound)
		}
		return nil
	})
}

// ListDisabilityMarks returns every known disability mark.
func (r *GORMUserRepository) ListDisabilityMarks(ctx context.Context) ([]models.DisabilityMark, error) {
	var marks []models.DisabilityMark
	if err := r.db.WithContext(ctx).Order("code").Find(&marks).Error; err != nil {
		return nil, fmt.Errorf("failed to list disability marks: %w", err)
	}
	return marks, nil
}

func (r *GORMUserRepository) loadMarks(ctx context.Context, user *models.User) error {
	var marks []models.DisabilityMark
	err := r.db.WithContext(ctx).
		Joins("JOIN user_disability_marks ON user_disability_marks.mark_code = disability_marks.code").
		Where("user_disability_marks.user_id = ?", user.ID).
		Order("disability_marks.code").
		Find(&marks).Error
	if err != nil {
		return fmt.Errorf("failed to load disability marks for user %s: %w", user.ID, err)
	}
	user.Marks = marks
	return nil
}
