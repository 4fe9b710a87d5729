package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PaulBabatuyi/chatStore-gRPC/internal/auth"
	"github.com/PaulBabatuyi/chatStore-gRPC/internal/config"
	"github.com/PaulBabatuyi/chatStore-gRPC/internal/data"
	"github.com/PaulBabatuyi/chatStore-gRPC/internal/db"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

var errMissingKeys = errors.New("required keys are not set")

func newApp(log *zap.Logger, out io.Writer, lookup func(string) (string, bool)) *cli.Command {
	return &cli.Command{
		Name:      "admin",
		Usage:     "Operator tasks for the chat store",
		Writer:    out,
		ErrWriter: out,
		Commands: []*cli.Command{
			createUserCommand(log, out),
			indexesCommand(log),
			missingKeysCommand(out, lookup),
		},
	}
}

func mongoFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "mongo-uri",
			Sources:  cli.EnvVars("MONGODB_URI"),
			Usage:    "MongoDB connection string",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "mongo-db",
			Sources: cli.EnvVars("MONGODB_DATABASE"),
			Usage:   "MongoDB database name",
			Value:   db.DefaultDatabase,
		},
	}
}

func connect(ctx context.Context, cmd *cli.Command) (*db.Client, error) {
	c, err := db.New(ctx, cmd.String("mongo-uri"), cmd.String("mongo-db"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	return c, nil
}

func createUserCommand(log *zap.Logger, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "create-user",
		Usage: "Create a user that can log in with email and password",
		Flags: append(mongoFlags(),
			&cli.StringFlag{
				Name:     "email",
				Usage:    "Login email",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "password",
				Sources:  cli.EnvVars("ADMIN_USER_PASSWORD"),
				Usage:    "Login password (at least 6 characters)",
				Required: true,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			email, password := cmd.String("email"), cmd.String("password")
			if err := auth.NewAuthenticator(nil).ValidateCredentials(email, password); err != nil {
				return err
			}

			c, err := connect(ctx, cmd)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close(context.Background()) }()

			if err := c.CreateIndexes(ctx); err != nil {
				return fmt.Errorf("failed to create indexes: %w", err)
			}

			salt, err := auth.NewSalt()
			if err != nil {
				return err
			}
			user, err := data.NewUsersStore(c.UsersCollection()).CreateUser(ctx, email, auth.Digest(password, salt), salt)
			if err != nil {
				return err
			}

			log.Info("user created", zap.String("user_id", user.ID), zap.String("email", user.Email))
			_, err = fmt.Fprintln(out, user.ID)
			return err
		},
	}
}

func indexesCommand(log *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "indexes",
		Usage: "Create the users and chats indexes",
		Flags: mongoFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, err := connect(ctx, cmd)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close(context.Background()) }()

			if err := c.CreateIndexes(ctx); err != nil {
				return fmt.Errorf("failed to create indexes: %w", err)
			}
			log.Info("indexes ready")
			return nil
		},
	}
}

// missingKeysCommand prints each unset required key on its own line and
// fails when any is missing.
func missingKeysCommand(out io.Writer, lookup func(string) (string, bool)) *cli.Command {
	return &cli.Command{
		Name:  "missing-keys",
		Usage: "List required environment keys that are not set",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			missing := config.MissingKeys(lookup)
			if len(missing) == 0 {
				return nil
			}
			if _, err := fmt.Fprintln(out, strings.Join(missing, "\n")); err != nil {
				return err
			}
			return errMissingKeys
		},
	}
}
