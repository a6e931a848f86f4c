package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/jobcache/internal/client/storage"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	password, err := c.io.ReadPassword("Password (min 10 chars): ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}

	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	c.io.Println()
	c.io.Println("Registering user...")

	userID, err := c.authService.Register(ctx, username, password)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("User ID: %s\n", userID)
	c.io.Printf("Username: %s\n", username)
	c.io.Println()
	c.io.Println("Please run 'jobcache login' to start using the service.")

	return nil
}

func (c *Cli) runLogin(ctx context.Context) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	previous, _, err := c.session.Principal(ctx)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	authData, err := c.authService.Login(ctx, username, password)
	if err != nil {
		return err
	}

	// Кэш другого пользователя не должен попасть в новую сессию
	if previous != "" && previous != authData.UserID {
		for _, r := range c.resources {
			r.reset(ctx)
		}
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Username: %s\n", authData.Username)
	c.io.Printf("Session expires: %s\n", time.Unix(authData.ExpiresAt, 0).Format(time.RFC3339))
	c.io.Println()

	// Первая загрузка кэша; ошибка не отменяет вход
	results, err := c.syncService.SyncAll(ctx, true)
	if err != nil {
		c.io.Printf("Warning: initial synchronization incomplete: %v\n", err)
		return nil
	}
	for _, res := range results {
		c.io.Printf("Cached %d %s\n", res.Items, res.Collection)
	}

	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	if err := c.authService.Logout(ctx); err != nil {
		return err
	}

	for _, r := range c.resources {
		r.reset(ctx)
	}

	c.io.Println("✓ Logged out. Local cache cleared.")
	return nil
}

// requireSession проверяет наличие сохранённой сессии
func (c *Cli) requireSession(ctx context.Context) error {
	_, ok, err := c.session.Principal(ctx)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	if !ok {
		return fmt.Errorf("not authenticated. Please run 'jobcache login' first")
	}
	return nil
}

// sessionStatus описывает состояние сессии одной строкой
func (c *Cli) sessionStatus(ctx context.Context) (string, error) {
	authData, err := c.session.Current(ctx)
	if errors.Is(err, storage.ErrAuthNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get auth data: %w", err)
	}

	expiresAt := time.Unix(authData.ExpiresAt, 0)
	if c.session.Expired(authData) {
		return fmt.Sprintf("%s (session expired at %s, please login again)", authData.Username, expiresAt.Format(time.RFC3339)), nil
	}
	return fmt.Sprintf("%s (expires %s)", authData.Username, expiresAt.Format(time.RFC3339)), nil
}
