// Package users stores registered accounts and their login-failure state.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/filevault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	RegisterFailedLogin(ctx context.Context, id string, at time.Time, lockAfter int) (*models.User, error)
	ResetFailedLogins(ctx context.Context, id string) error
}
