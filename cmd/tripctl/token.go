package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/middleware"
)

func newTokenCmd() *cobra.Command {
	var (
		secret  string
		subject string
		email   string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token",
		Long: `Mint an HS256 token the API accepts, signed with the server's JWT_SECRET.
Intended for local development; production tokens come from the identity provider.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				return errors.New("no secret: pass --secret or set JWT_SECRET")
			}
			sess := domain.Session{Email: email}
			if subject == "" {
				sess.UserID = uuid.New()
			} else {
				id, err := uuid.Parse(subject)
				if err != nil {
					return fmt.Errorf("--sub: %w", err)
				}
				sess.UserID = id
			}
			tok, err := middleware.IssueToken([]byte(secret), sess, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC signing secret")
	cmd.Flags().StringVar(&subject, "sub", "", "user id (default: a new random id)")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
