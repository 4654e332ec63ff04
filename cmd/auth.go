package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/shared"
)

// AuthLogin authenticates against the backend and persists the token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	sess, err := r.session.Login(ctx, cmd.String("username"), cmd.String("password"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	name := sess.User.DisplayName
	if name == "" {
		name = sess.User.Username
	}
	return r.writePlain("✓ Logged in as %s\n", name)
}

// AuthRegister creates an account; the backend logs the new user in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	sess, err := r.session.Register(ctx, cmd.String("username"), cmd.String("password"), cmd.String("display-name"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	return r.writePlain("✓ Account created, logged in as %s\n", sess.User.Username)
}

// AuthWhoami prints the account the persisted session belongs to.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	user := r.session.Current().User
	r.writePlain("Username: %s\n", user.Username)
	if user.DisplayName != "" {
		r.writePlain("Display name: %s\n", user.DisplayName)
	}
	return nil
}

// AuthProfile updates the account display name.
func (r *Runner) AuthProfile(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	name := cmd.String("display-name")
	if err := r.session.UpdateDisplayName(ctx, name); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writePlain("✓ Display name updated to %s\n", name)
}

// AuthLogout discards the persisted session token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.session.Logout(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return r.writePlain("✓ Logged out\n")
}

// AuthStatus checks backend availability by calling the /health endpoint.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking backend status")

	if err := r.client.Health(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	return r.writePlain("✓ Backend is healthy\n")
}
