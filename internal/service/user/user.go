package user

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/smmpanel/smmpanel/internal/apperrors"
	"github.com/smmpanel/smmpanel/internal/models"
	"github.com/smmpanel/smmpanel/internal/repository"
)

const apiKeyBytesLen = 32

type UserService struct {
	hasher PasswordHasher

	// Repository to access long term data
	storage repository.Storage
}

func NewService(hasher PasswordHasher, storage repository.Storage) *UserService {
	if hasher == nil {
		hasher = DefaultHasher
	}

	return &UserService{
		hasher:  hasher,
		storage: storage,
	}
}

// CreateUser registers a user with a hashed credential
// The raw password never reaches the repository
func (s *UserService) CreateUser(ctx context.Context, username string, email string, password string, role string) (models.User, error) {
	var user models.User

	if role == "" {
		role = models.RoleUser
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return user, fmt.Errorf("can't use this as password, Err: %w", err)
	}

	return s.storage.User().CreateUser(ctx, repository.CreateUserParams{
		Username:       username,
		Email:          email,
		HashedPassword: hash,
		Role:           role,
	})
}

// Login returns the user only if the credential matches
// A missing user and a wrong password are indistinguishable to the caller
func (s *UserService) Login(ctx context.Context, email string, password string) (models.User, error) {
	user, err := s.storage.User().GetUserByEmail(ctx, email)
	if err != nil {
		return models.User{}, err
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.User{}, apperrors.ErrUserNotFound
	}

	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	return s.storage.User().GetUserByID(ctx, id)
}

func (s *UserService) GetUserByAPIKey(ctx context.Context, key string) (models.User, error) {
	return s.storage.User().GetUserByAPIKey(ctx, key)
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.storage.User().ListUsers(ctx)
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, arg repository.UpdateUserParams) (models.User, error) {
	if arg.Balance != nil && arg.Balance.IsNegative() {
		return models.User{}, apperrors.ErrAmountNotPositive
	}

	return s.storage.User().UpdateUser(ctx, id, arg)
}

// GenerateAPIKey issues a fresh crypto-random key and overwrites any prior one
func (s *UserService) GenerateAPIKey(ctx context.Context, userID int64) (string, error) {
	b := make([]byte, apiKeyBytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("can't generate api key: %w", err)
	}
	key := hex.EncodeToString(b)

	if _, err := s.storage.User().SetAPIKey(ctx, userID, key); err != nil {
		return "", err
	}

	return key, nil
}
