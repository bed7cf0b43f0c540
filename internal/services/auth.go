package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"devsprint/backend/internal/config"
	"devsprint/backend/internal/models"
	"devsprint/backend/internal/utils"
	"gorm.io/gorm"
)

// AuthService handles registration and login. It produces the authenticated
// principal the coordinators consume; everything past token parsing is the
// policy engine's business.
type AuthService struct {
	db        *gorm.DB
	jwtConfig *config.JWTConfig
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{db: db, jwtConfig: jwtCfg}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token    string       `json:"token"`
	ExpireAt time.Time    `json:"expire_at"`
	User     *models.User `json:"user"`
}

// Register creates a user with a hashed password. Email must be unused.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	role := req.Role
	if role == "" {
		role = models.RoleDev
	}
	if !models.IsValidRole(role) {
		return nil, ErrValidation("invalid role %q", role)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	if count > 0 {
		return nil, ErrConflict("email already registered")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	user := models.User{
		Email:    email,
		Password: hashed,
		FullName: req.FullName,
		Role:     role,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return &user, nil
}

// Login verifies credentials and returns a signed JWT. Invalid email and
// invalid password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized("invalid email or password")
		}
		return nil, wrapStoreErr(err)
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, ErrUnauthorized("invalid email or password")
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, s.jwtConfig.ExpireHour)
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	return &LoginResult{
		Token:    token,
		ExpireAt: time.Now().Add(time.Duration(s.jwtConfig.ExpireHour) * time.Hour),
		User:     &user,
	}, nil
}

// GetUserByID retrieves a user by id.
func (s *AuthService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("user not found")
		}
		return nil, wrapStoreErr(err)
	}
	return &user, nil
}

// ListUsers returns all users, for the task-assignment dropdown.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return users, nil
}

// CreateLeadIfNotExists seeds a default lead account on first start.
func (s *AuthService) CreateLeadIfNotExists() error {
	var count int64
	if err := s.db.Model(&models.User{}).
		Where("role = ?", models.RoleLead).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := utils.HashPassword("devsprint")
	if err != nil {
		return err
	}

	lead := models.User{
		Email:    "lead@devsprint.local",
		Password: hashed,
		FullName: "Team Lead",
		Role:     models.RoleLead,
	}
	return s.db.Create(&lead).Error
}
