// Package services contains application services for the FileVault client.
// This file defines the authentication service: register, login, session
// restore from the local database, and logout.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filevault/internal/client/client"
	"github.com/dmitrijs2005/filevault/internal/client/repositories/session"
)

const (
	keyAccessToken = "access_token"
	keyExpiresAt   = "expires_at"
	keyEmail       = "email"
)

// AuthService defines authentication operations for the CLI.
type AuthService interface {
	Register(ctx context.Context, name, email string, password []byte) error
	// Login authenticates and persists the session.
	Login(ctx context.Context, email string, password []byte) error
	// Restore reloads an unexpired session. It returns the session's email,
	// or "" when there is none.
	Restore(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client  client.Client
	session session.Repository
	now     func() time.Time
}

func NewAuthService(c client.Client, s session.Repository) AuthService {
	return &authService{client: c, session: s, now: time.Now}
}

func (a *authService) Register(ctx context.Context, name, email string, password []byte) error {
	_, err := a.client.Register(ctx, name, email, string(password))
	return err
}

func (a *authService) Login(ctx context.Context, email string, password []byte) error {
	token, exp, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	if err := a.session.Set(ctx, keyAccessToken, []byte(token)); err != nil {
		return err
	}
	if err := a.session.Set(ctx, keyExpiresAt, []byte(exp.UTC().Format(time.RFC3339))); err != nil {
		return err
	}
	return a.session.Set(ctx, keyEmail, []byte(email))
}

func (a *authService) Restore(ctx context.Context) (string, error) {
	token, err := a.session.Get(ctx, keyAccessToken)
	if err != nil || token == nil {
		return "", err
	}

	raw, err := a.session.Get(ctx, keyExpiresAt)
	if err != nil {
		return "", err
	}
	exp, perr := time.Parse(time.RFC3339, string(raw))
	if perr != nil || !a.now().Before(exp) {
		if err := a.session.Clear(ctx); err != nil {
			return "", fmt.Errorf("drop stale session: %w", err)
		}
		return "", nil
	}

	email, err := a.session.Get(ctx, keyEmail)
	if err != nil {
		return "", err
	}

	a.client.SetAccessToken(string(token))
	return string(email), nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.client.SetAccessToken("")
	return a.session.Clear(ctx)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
