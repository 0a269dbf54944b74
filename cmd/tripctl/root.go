package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/trip-planner/internal/client"
)

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	server  string
	token   string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "tripctl",
		Short: "Plan trips with friends from the terminal",
		Long: `tripctl talks to a trip planner API server.

Authenticate with --token or TRIPCTL_TOKEN. For local development,
"tripctl token" mints one with the server's JWT_SECRET.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.server, "server", envOr("TRIPCTL_SERVER", "http://localhost:8080"), "API base URL")
	root.PersistentFlags().StringVar(&g.token, "token", os.Getenv("TRIPCTL_TOKEN"), "bearer token")
	root.PersistentFlags().DurationVar(&g.timeout, "timeout", 15*time.Second, "per-command timeout")

	root.AddCommand(
		newTokenCmd(),
		newTripsCmd(g),
		newActivitiesCmd(g),
		newVoteCmd(g),
		newItineraryCmd(g),
		newFreeSlotsCmd(g),
	)
	return root
}

// client builds an API client and a context bounded by --timeout.
func (g *globals) client(cmd *cobra.Command) (*client.Client, context.Context, context.CancelFunc, error) {
	if g.token == "" {
		return nil, nil, nil, errors.New("no token: pass --token or set TRIPCTL_TOKEN")
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), g.timeout)
	return client.New(g.server, client.WithToken(g.token)), ctx, cancel, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
