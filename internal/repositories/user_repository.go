package repositories

import (
	"time"

	"github.com/danhtrinhdevelopermay/BSA6/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByExternalID(externalID string) (*models.User, error)
	GetUsers() ([]models.User, error)
	UpdateUser(user *models.User) error
	UpdateStreak(id uint, streak int, lastActive *time.Time) error
	AddXP(id uint, gain int) (*models.User, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID from PostgreSQL
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByExternalID retrieves a user by the identity provider's stable id
func (r *PostgresUserRepository) GetUserByExternalID(externalID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("external_id = ?", externalID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsers retrieves all users from PostgreSQL
func (r *PostgresUserRepository) GetUsers() ([]models.User, error) {
	var users []models.User
	if err := r.db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser updates an existing user in PostgreSQL
func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// UpdateStreak writes the streak counter and last-active timestamp as a
// single update. lastActive may be nil to clear the activity record.
func (r *PostgresUserRepository) UpdateStreak(id uint, streak int, lastActive *time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"streak":      streak,
		"last_active": lastActive,
	}).Error
}

// AddXP atomically increments a user's XP and returns the updated record
func (r *PostgresUserRepository) AddXP(id uint, gain int) (*models.User, error) {
	if err := r.db.Model(&models.User{}).Where("id = ?", id).
		Update("xp", gorm.Expr("xp + ?", gain)).Error; err != nil {
		return nil, err
	}
	return r.GetUserByID(id)
}
