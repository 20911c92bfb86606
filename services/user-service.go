package services

import (
	"context"
	"errors"
	"fmt"
	"html"

	"taskflow/models"
	"taskflow/repositories"
	"taskflow/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// AuthUser is the summary+token shape login, register and profile updates all
// answer with. The password hash never leaves the service.
type AuthUser struct {
	ID      primitive.ObjectID `json:"_id"`
	Name    string             `json:"name"`
	Email   string             `json:"email"`
	IsAdmin bool               `json:"isAdmin"`
	Token   string             `json:"token"`
}

type UpdateProfileInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func authUser(user models.User) (AuthUser, error) {
	token, err := utils.GenerateToken(user.ID.Hex())
	if err != nil {
		return AuthUser{}, fmt.Errorf("failed to generate token: %v", err)
	}
	return AuthUser{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		Token:   token,
	}, nil
}

func (s *UserService) Register(ctx context.Context, name, email, password string) (AuthUser, error) {
	if name == "" || email == "" || password == "" {
		return AuthUser{}, E(ErrBadRequest, "Please provide name, email and password")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return AuthUser{}, ErrDuplicateEmail
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return AuthUser{}, err
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return AuthUser{}, err
	}

	user := models.User{
		Name:     html.EscapeString(name),
		Email:    email,
		Password: hashed,
		Teams:    []primitive.ObjectID{},
	}

	id, err := s.users.Insert(ctx, user)
	if err != nil {
		return AuthUser{}, err
	}
	user.ID = id

	return authUser(user)
}

func (s *UserService) Login(ctx context.Context, email, password string) (AuthUser, error) {
	if email == "" || password == "" {
		return AuthUser{}, E(ErrBadRequest, "Please provide an email and password")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return AuthUser{}, ErrInvalidCredentials
		}
		return AuthUser{}, err
	}

	if !utils.CheckPassword(user.Password, password) {
		return AuthUser{}, ErrInvalidCredentials
	}

	return authUser(user)
}

// UpdateProfile persists name/email changes and, when a new password is
// supplied, verifies the current one before re-hashing. A fresh token is
// issued either way.
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, input UpdateProfileInput) (AuthUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return AuthUser{}, E(ErrNotFound, "User not found")
		}
		return AuthUser{}, err
	}

	if input.NewPassword != "" {
		if input.CurrentPassword == "" {
			return AuthUser{}, E(ErrBadRequest, "Please provide current password")
		}
		if !utils.CheckPassword(user.Password, input.CurrentPassword) {
			return AuthUser{}, ErrBadCurrentPassword
		}
		hashed, err := utils.HashPassword(input.NewPassword)
		if err != nil {
			return AuthUser{}, err
		}
		user.Password = hashed
	}

	if input.Name != "" {
		user.Name = html.EscapeString(input.Name)
	}
	if input.Email != "" {
		user.Email = input.Email
	}

	if err := s.users.Update(ctx, user); err != nil {
		return AuthUser{}, err
	}

	return authUser(user)
}

// ListUsers returns every user as a display summary, for assignment pickers.
func (s *UserService) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, u.Summary())
	}
	return summaries, nil
}
