package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdihub/pdihub/internal/config"
	"github.com/pdihub/pdihub/internal/dbpool"
	"github.com/pdihub/pdihub/internal/models"
	"github.com/pdihub/pdihub/internal/service"
	"github.com/pdihub/pdihub/internal/store"
)

// openUserService connects straight to the database for out-of-band session
// provisioning. No HTTP server involvement.
func openUserService(ctx context.Context) (*service.UserService, *store.UserStore, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := newLogger(cfg.LogLevel)

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect database: %w", err)
	}

	userStore := store.NewUserStore(store.Base{Pool: pool, Log: log})
	worker := service.NewAuditWorker(store.NewAuditStore(store.Base{Pool: pool, Log: log}), userStore, log, 16)

	// One-shot commands process their audit queue inline.
	workerCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() { worker.Run(workerCtx); close(done) }()

	cleanup := func() {
		cancel()
		<-done
		pool.Close()
	}

	return service.NewUserService(userStore, worker, log), userStore, cleanup, nil
}

func newTokenCmd() *cobra.Command {
	var email string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a session token for an existing user",
		Long: "Issues a session token directly against the database. There is no\n" +
			"password flow; tokens are provisioned out of band and presented as\n" +
			"Bearer credentials.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			users, _, cleanup, err := openUserService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			token, err := users.IssueSession(ctx, email, ttl)
			if err != nil {
				return fmt.Errorf("issue session: %w", err)
			}

			fmt.Println(token)

			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email of the user to issue a token for")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Session lifetime")
	cmd.MarkFlagRequired("email") //nolint:errcheck

	cmd.AddCommand(newBootstrapCmd())

	return cmd
}

// newBootstrapCmd creates the very first admin account. Every later user is
// created through the API by that admin.
func newBootstrapCmd() *cobra.Command {
	var name, email, phone string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the initial admin user and print a session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			users, userStore, cleanup, err := openUserService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			req := models.CreateUserRequest{Name: name, Email: email, Phone: phone, Role: models.RoleAdmin}
			if err := req.Validate(); err != nil {
				return err
			}

			u, err := userStore.CreateUser(ctx, req)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}

			token, err := users.IssueSession(ctx, u.Email, ttl)
			if err != nil {
				return fmt.Errorf("issue session: %w", err)
			}

			fmt.Printf("admin %s created (id=%s)\n", u.Email, u.ID)
			fmt.Println(token)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Admin display name")
	cmd.Flags().StringVar(&email, "email", "", "Admin email")
	cmd.Flags().StringVar(&phone, "phone", "", "Admin phone number")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Session lifetime")
	cmd.MarkFlagRequired("name")  //nolint:errcheck
	cmd.MarkFlagRequired("email") //nolint:errcheck
	cmd.MarkFlagRequired("phone") //nolint:errcheck

	return cmd
}
