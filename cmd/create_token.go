package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/auth"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/validation"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	tokenEmail string
	tokenRole  string
)

// createTokenCmd is a development helper. Tokens for real users come from the identity provider.
var createTokenCmd = &cobra.Command{
	Use:   "create-token",
	Short: "Print a signed access token for a user, creating the user if needed",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenRole != models.RoleUser && tokenRole != models.RoleAdmin {
			return fmt.Errorf("--role must be %q or %q", models.RoleUser, models.RoleAdmin)
		}

		conf, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openDatabase(conf)
		if err != nil {
			return err
		}
		defer closeDatabase(db)

		ctx := cmd.Context()
		users := services.NewUserService(db)

		user, err := findOrCreateTokenUser(ctx, users, tokenEmail)
		if err != nil {
			return err
		}

		if user.Role != tokenRole {
			if err := users.SetRole(ctx, user.ID, tokenRole); err != nil {
				return err
			}
			user.Role = tokenRole
		}

		token, err := auth.NewTokenGenerator(conf.JWTSecret).Generate(*user)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	createTokenCmd.Flags().StringVar(&tokenEmail, "email", "", "User email")
	createTokenCmd.Flags().StringVar(&tokenRole, "role", models.RoleUser, "User role (user or admin)")
	if err := createTokenCmd.MarkFlagRequired("email"); err != nil {
		log.WithError(err).Fatal("Failed to mark --email as required")
	}
}

// findOrCreateTokenUser looks the user up by email and registers them with a
// random password when missing
func findOrCreateTokenUser(ctx context.Context, users services.UserService, email string) (*models.User, error) {
	user, err := users.GetUserByEmail(ctx, email)
	if !errors.Is(err, services.ErrUserNotFound) {
		return user, err
	}

	req := models.RegisterUserRequest{
		Email:     email,
		Username:  usernameFromEmail(email),
		FirstName: "Dev",
		LastName:  "User",
		Password:  uuid.NewString(),
	}
	user, err = users.CreateUser(ctx, req)
	if errors.Is(err, services.ErrUserAlreadyExists) {
		// the email is free, so the derived username is taken
		req.Username = generatedUsername()
		user, err = users.CreateUser(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"user_id": user.ID, "username": user.Username}).Info("Created user for token")
	return user, nil
}

// usernameFromEmail uses the local part of the address when it is a valid
// username and a generated one otherwise
func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if validation.IsValidUsername(local) {
		return local
	}
	return generatedUsername()
}

func generatedUsername() string {
	return "user_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
