package services

import (
	"context"
	"strings"
	"time"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain"
	"github.com/andyriles/meal-ordering-service-backend/internal/domain/models"
	"github.com/andyriles/meal-ordering-service-backend/internal/pagination"
	"github.com/andyriles/meal-ordering-service-backend/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

var errBadCredentials = domain.UnauthorizedError{Msg: "incorrect email or password"}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User      models.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type UserService struct {
	Repo   repositories.UserRepository
	Tokens Tokens
}

// Register creates a user with the default role and signs them in.
func (s UserService) Register(ctx context.Context, in models.RegisterInput) (AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := requireFields("name", in.Name, "email", email); err != nil {
		return AuthResult{}, err
	}
	if len(in.Password) < 8 {
		return AuthResult{}, domain.ValidationError{Field: "password", Msg: "must be at least 8 characters"}
	}

	taken, err := s.Repo.EmailTaken(ctx, email)
	if err != nil {
		return AuthResult{}, err
	}
	if taken {
		return AuthResult{}, domain.ConflictError{Resource: "user", Msg: "email already taken"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, domain.InternalError{Msg: "failed to hash password", Err: err}
	}

	ts := now()
	u := models.User{
		ID:           newID(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Role:         domain.RoleUser,
		PasswordHash: string(hash),
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if err := s.Repo.Insert(ctx, u); err != nil {
		return AuthResult{}, err
	}
	logDone(ctx, "auth", "register", "user registered", u.ID)
	return s.signIn(u)
}

func (s UserService) Login(ctx context.Context, in models.LoginInput) (AuthResult, error) {
	u, err := s.Repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if domain.IsNotFound(err) {
			return AuthResult{}, errBadCredentials
		}
		return AuthResult{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return AuthResult{}, errBadCredentials
	}
	logDone(ctx, "auth", "login", "user logged in", u.ID)
	return s.signIn(u)
}

func (s UserService) QueryUsers(ctx context.Context, filter pagination.Filter, opts pagination.Options) (pagination.QueryResult[models.User], error) {
	return queryPage(ctx, "users", s.Repo.Collection(), filter, opts)
}

func (s UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	if err := validateID("userId", id); err != nil {
		return models.User{}, err
	}
	return s.Repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s UserService) signIn(u models.User) (AuthResult, error) {
	token, exp, err := s.Tokens.Issue(u)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: u, Token: token, ExpiresAt: exp}, nil
}
