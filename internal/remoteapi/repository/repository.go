// Package repository persists the users served by the stub users resource.
package repository

import (
	"context"
	"errors"

	"github.com/aDevMister/my-assesment/internal/models"
)

var ErrNotFound = errors.New("user not found")

// Repository stores users in insertion order with server-assigned ids.
type Repository interface {
	// Create assigns the next id to u and stores it.
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id int) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Replace(ctx context.Context, u models.User) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}
