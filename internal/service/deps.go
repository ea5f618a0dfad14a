package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/inventory/internal/models"
	"github.com/Skotchmaster/inventory/pkg/tokens"
)

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UserTaken(ctx context.Context, username, email, exceptID string) (bool, error)
	SaveUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id string) error
	CountProductsByCreator(ctx context.Context, userID string) (int64, error)
}

type ProductRepo interface {
	UserExists(ctx context.Context, id string) (bool, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ProductTitleTaken(ctx context.Context, title, exceptID string) (bool, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	SaveProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

type TokenIssuer interface {
	Issue(subjectID, username string, roles []string) (string, time.Time, error)
}

// TokenDecoder reads claims from a token the guard has already verified.
type TokenDecoder interface {
	Decode(token string) *tokens.Claims
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// ProductIndex mirrors products into a full-text search engine.
type ProductIndex interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
}
