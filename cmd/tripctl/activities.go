package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pkordes/trip-planner/internal/client"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/store"
	"github.com/pkordes/trip-planner/internal/vote"
)

func newActivitiesCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activities",
		Aliases: []string{"act"},
		Short:   "Manage a trip's activities",
	}
	cmd.AddCommand(
		newActivitiesListCmd(g),
		newActivitiesShowCmd(g),
		newActivitiesAddCmd(g),
		newActivitiesRemoveCmd(g),
		newActivitiesLockCmd(g),
	)
	return cmd
}

// loadStore fetches tripID's activities into a fresh store backed by c.
func loadStore(ctx context.Context, c *client.Client, tripID uuid.UUID) (*store.Store, error) {
	acts, err := c.ListActivities(ctx, tripID)
	if err != nil {
		return nil, err
	}
	s := store.New(c)
	s.Load(tripID, acts)
	return s, nil
}

func newActivitiesListCmd(g *globals) *cobra.Command {
	var threshold int
	cmd := &cobra.Command{
		Use:   "list TRIP_ID",
		Short: "List activities by date and time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tripID, err := parseID("trip id", args[0])
			if err != nil {
				return err
			}
			c, ctx, cancel, err := g.client(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			s, err := loadStore(ctx, c, tripID)
			if err != nil {
				return err
			}
			return printActivities(cmd.OutOrStdout(), s.Snapshot(), threshold)
		},
	}
	cmd.Flags().IntVar(&threshold, "threshold", vote.DefaultLockThreshold, "votes for full lock progress when the server reports none (0 hides it)")
	return cmd
}

func newActivitiesShowCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show TRIP_ID ACTIVITY_ID",
		Short: "Show one activity and who voted for it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tripID, activityID, err := parseActivityArgs(args)
			if err != nil {
				return err
			}
			c, ctx, cancel, err := g.client(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			a, err := c.GetActivity(ctx, tripID, activityID)
			if err != nil {
				return err
			}
			votes, err := c.Votes(ctx, tripID, activityID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			when := a.Time
			if a.EndTime != "" {
				when += "-" + a.EndTime
			}
			fmt.Fprintf(out, "%s  %s\n", a.Title, a.ID)
			fmt.Fprintf(out, "  %s %s @ %s (%s)\n", a.Date.Format(domain.DateLayout), when, a.Location, a.Category)
			if a.EstimatedCost > 0 {
				fmt.Fprintf(out, "  cost:   %.2f\n", a.EstimatedCost)
			}
			if a.Notes != "" {
				fmt.Fprintf(out, "  notes:  %s\n", a.Notes)
			}
			if a.IsLockedIn {
				fmt.Fprintln(out, "  locked in")
			}
			fmt.Fprintf(out, "  votes:  %d\n", len(votes))
			for _, v := range votes {
				fmt.Fprintf(out, "    %s  %s\n", v.UserID, v.CreatedAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}

func newActivitiesAddCmd(g *globals) *cobra.Command {
	var (
		a        domain.Activity
		date     string
		category string
	)
	cmd := &cobra.Command{
		Use:   "add TRIP_ID",
		Short: "Add an activity to a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tripID, err := parseID("trip id", args[0])
			if err != nil {
				return err
			}
			cat, ok := domain.ParseCategory(category)
			if !ok {
				return fmt.Errorf("--category: want one of %s", categoryList())
			}
			a.Category = cat
			if a.Date, err = parseDate("--date", date); err != nil {
				return err
			}
			c, ctx, cancel, err := g.client(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			s, err := loadStore(ctx, c, tripID)
			if err != nil {
				return err
			}
			created, err := s.Create(ctx, a)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %q (%s)\n", created.Title, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&a.Title, "title", "", "title")
	cmd.Flags().StringVar(&category, "category", string(domain.CategorySightseeing), "one of "+categoryList())
	cmd.Flags().StringVar(&date, "date", "", "day (YYYY-MM-DD), within the trip")
	cmd.Flags().StringVar(&a.Time, "time", "12:00", "start time (HH:MM)")
	cmd.Flags().StringVar(&a.EndTime, "end", "", "end time (HH:MM)")
	cmd.Flags().StringVar(&a.Location, "location", "", "location")
	cmd.Flags().Float64Var(&a.EstimatedCost, "cost", 0, "estimated cost")
	cmd.Flags().StringVar(&a.Notes, "notes", "", "notes")
	for _, f := range []string{"title", "date", "location"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newActivitiesRemoveCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "rm TRIP_ID ACTIVITY_ID",
		Aliases: []string{"delete"},
		Short:   "Delete an activity",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tripID, activityID, err := parseActivityArgs(args)
			if err != nil {
				return err
			}
			c, ctx, cancel, err := g.client(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			s, err := loadStore(ctx, c, tripID)
			if err != nil {
				return err
			}
			return s.Delete(ctx, activityID)
		},
	}
}

func newActivitiesLockCmd(g *globals) *cobra.Command {
	var unlock bool
	cmd := &cobra.Command{
		Use:   "lock TRIP_ID ACTIVITY_ID",
		Short: "Lock an activity in (trip creator only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tripID, activityID, err := parseActivityArgs(args)
			if err != nil {
				return err
			}
			c, ctx, cancel, err := g.client(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			a, err := c.LockActivity(ctx, tripID, activityID, !unlock)
			if err != nil {
				return err
			}
			state := "locked in"
			if !a.IsLockedIn {
				state = "unlocked"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%q is %s\n", a.Title, state)
			return nil
		},
	}
	cmd.Flags().BoolVar(&unlock, "unlock", false, "clear the lock-in flag instead")
	return cmd
}

func newVoteCmd(g *globals) *cobra.Command {
	var threshold int
	cmd := &cobra.Command{
		Use:   "vote TRIP_ID ACTIVITY_ID",
		Short: "Toggle your vote on an activity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tripID, activityID, err := parseActivityArgs(args)
			if err != nil {
				return err
			}
			c, ctx, cancel, err := g.client(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			acts, err := c.ListActivities(ctx, tripID)
			if err != nil {
				return err
			}
			votes := &progressVotes{Client: c}
			s := store.New(votes)
			s.Load(tripID, acts)
			st, err := s.ToggleVote(ctx, activityID)
			if err != nil {
				return err
			}
			verb := "removed"
			if st.Voted {
				verb = "added"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "vote %s: %d vote(s)%s\n", verb, st.Count, progressSuffix(st.Count, threshold, votes.progress))
			return nil
		},
	}
	cmd.Flags().IntVar(&threshold, "threshold", vote.DefaultLockThreshold, "votes for full lock progress when the server reports none (0 hides it)")
	return cmd
}

// progressVotes is a store backend that keeps the lock progress of the last
// vote response, which vote.State does not carry.
type progressVotes struct {
	*client.Client
	progress *float64
}

func (p *progressVotes) ToggleVote(ctx context.Context, tripID, activityID uuid.UUID) (vote.State, error) {
	res, err := p.Vote(ctx, tripID, activityID)
	if err != nil {
		return vote.State{}, err
	}
	p.progress = res.LockProgress
	return vote.State{Count: res.VoteCount, Voted: res.Voted}, nil
}

func printActivities(w io.Writer, acts []domain.Activity, threshold int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTIME\tTITLE\tCATEGORY\tVOTES\tLOCKED")
	for _, a := range acts {
		mark := ""
		if a.Voted {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d%s%s\t%t\n",
			a.ID, a.Date.Format(domain.DateLayout), a.Time, a.Title, a.Category,
			a.VoteCount, mark, progressSuffix(a.VoteCount, threshold, a.LockProgress), a.IsLockedIn)
	}
	return tw.Flush()
}

// progressSuffix renders the lock progress hint. The server's ratio wins;
// without one it is computed from threshold, and a disabled threshold
// renders nothing.
func progressSuffix(count, threshold int, server *float64) string {
	if server != nil {
		return fmt.Sprintf(" (%.0f%%)", *server*100)
	}
	p, ok := vote.Progress(count, threshold)
	if !ok {
		return ""
	}
	return fmt.Sprintf(" (%.0f%%)", p*100)
}

func parseActivityArgs(args []string) (uuid.UUID, uuid.UUID, error) {
	tripID, err := parseID("trip id", args[0])
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	activityID, err := parseID("activity id", args[1])
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return tripID, activityID, nil
}

func categoryList() string {
	names := make([]string, 0, len(domain.Categories()))
	for _, c := range domain.Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
