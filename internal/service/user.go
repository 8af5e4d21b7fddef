package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"qna_web/internal/models"
	"qna_web/internal/repository"
	"qna_web/pkg/utils"
)

// User 對外輸出的使用者資料，不含密碼
type User struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type RegisterInput struct {
	Username string
	Password string
	Email    string
}

type LoginResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Username    string    `json:"username"`
	ExpiresAt   time.Time `json:"-"`
}

type UserService struct {
	userRepo repository.UserRepository
	tokens   *utils.TokenManager
}

func NewUserService(userRepo repository.UserRepository, tokens *utils.TokenManager) *UserService {
	return &UserService{userRepo: userRepo, tokens: tokens}
}

// Register 建立新用戶，用戶名或 email 已存在時回傳 ErrUserExists
func (s *UserService) Register(ctx context.Context, input RegisterInput) error {
	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, input.Username, input.Email)
	if err != nil {
		return err
	}
	if exists {
		return ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{
		Username: input.Username,
		Password: string(hashedPassword),
		Email:    input.Email,
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		// 並發註冊時由唯一索引擋下
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return err
	}
	return nil
}

func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   utils.TokenType,
		Username:    user.Username,
		ExpiresAt:   expiresAt,
	}, nil
}

// Authenticate 驗證 token 並取回對應的用戶
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	// 用戶名改變或 id 被重用時讓舊 token 失效
	if user.Username != claims.Subject {
		return nil, utils.ErrInvalidToken
	}
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func convertModelToUser(model *models.User) *User {
	if model == nil {
		return nil
	}
	return &User{ID: model.ID, Username: model.Username, Email: model.Email}
}

func convertModelsToUsers(list []models.User) []User {
	users := make([]User, 0, len(list))
	for i := range list {
		users = append(users, *convertModelToUser(&list[i]))
	}
	return users
}
