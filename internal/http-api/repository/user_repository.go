package repository

import (
	"strings"

	"manahub/internal/http-api/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(user *models.User) error
	FindByID(id string) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	// FindByDisplayNames returns users whose display name case-insensitively
	// equals one of the given handles. Users without a display name never match.
	FindByDisplayNames(handles []string) ([]models.User, error)
}

// userRepository is the GORM implementation of UserRepository.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository in a GORM implementation
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	// return nil on error so a zero-value struct never looks like a hit
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByDisplayNames(handles []string) ([]models.User, error) {
	if len(handles) == 0 {
		return nil, nil
	}
	lowered := make([]string, 0, len(handles))
	for _, h := range handles {
		lowered = append(lowered, strings.ToLower(h))
	}

	var users []models.User
	err := r.db.
		Where("display_name IS NOT NULL").
		Where("LOWER(display_name) IN ?", lowered).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
