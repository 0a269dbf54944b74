package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pkordes/trip-planner/internal/domain"
)

func newTripsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trips",
		Short: "Create, list, join and inspect trips",
	}
	cmd.AddCommand(
		newTripsListCmd(g),
		newTripsCreateCmd(g),
		newTripsShowCmd(g),
		newTripsUpdateCmd(g),
		newTripsJoinCmd(g),
		newTripsMembersCmd(g),
		newTripsRemoveMemberCmd(g),
		newTripsDeleteCmd(g),
	)
	return cmd
}

func newTripsListCmd(g *globals) *cobra.Command {
	var page, limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trips you are a member of",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, ctx, cancel, err := g.client(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			res, err := c.ListTrips(ctx, page, limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tDESTINATION\tDATES\tCODE")
			for _, t := range res.Trips {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Destination, dateRange(t), t.TripCode)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "page %d/%d, %d of %d trips\n", res.Page, res.Pages, len(res.Trips), res.Total)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", domain.DefaultPage, "page number")
	cmd.Flags().IntVar(&limit, "limit", domain.DefaultLimit, fmt.Sprintf("trips per page (max %d)", domain.MaxLimit))
	return cmd
}

func newTripsCreateCmd(g *globals) *cobra.Command {
	var (
		t          domain.Trip
		start, end string
		budget     float64
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a trip; you become its creator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if t.StartDate, err = parseDate("--start", start); err != nil {
				return err
			}
			if t.EndDate, err = parseDate("--end", end); err != nil {
				return err
			}
			if cmd.Flags().Changed("budget") {
				t.Budget = &budget
			}
			c, ctx, cancel, err := g.client(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			created, err := c.CreateTrip(ctx, t)
			if err != nil {
				return err
			}
			printTrip(cmd.OutOrStdout(), created)
			return nil
		},
	}
	cmd.Flags().StringVar(&t.Name, "name", "", "trip name")
	cmd.Flags().StringVar(&t.Destination, "destination", "", "destination")
	cmd.Flags().StringVar(&start, "start", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "last day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&t.CoverImageURL, "cover", "", "cover image URL")
	cmd.Flags().Float64Var(&budget, "budget", 0, "total budget")
	cmd.Flags().StringVar(&t.Currency, "currency", "", "ISO currency code (default USD)")
	for _, f := range []string{"name", "destination", "start", "end"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newTripsShowCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show TRIP_ID",
		Short: "Show a trip and its budget usage",
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
			t, err := c.GetTrip(ctx, tripID)
			if err != nil {
				return err
			}
			usage, err := c.Budget(ctx, tripID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printTrip(out, t)
			printBudget(out, t.Currency, usage)
			return nil
		},
	}
}

// newTripsUpdateCmd edits the flags given and leaves every other field as
// the server has it.
func newTripsUpdateCmd(g *globals) *cobra.Command {
	var (
		name, destination, start, end string
		budget                        float64
		archive                       bool
	)
	cmd := &cobra.Command{
		Use:   "update TRIP_ID",
		Short: "Change a trip's details",
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
			t, err := c.GetTrip(ctx, tripID)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				t.Name = name
			}
			if flags.Changed("destination") {
				t.Destination = destination
			}
			if flags.Changed("start") {
				if t.StartDate, err = parseDate("--start", start); err != nil {
					return err
				}
			}
			if flags.Changed("end") {
				if t.EndDate, err = parseDate("--end", end); err != nil {
					return err
				}
			}
			if flags.Changed("budget") {
				t.Budget = &budget
			}
			if flags.Changed("archive") {
				t.IsArchived = archive
			}
			updated, err := c.UpdateTrip(ctx, t)
			if err != nil {
				return err
			}
			printTrip(cmd.OutOrStdout(), updated)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "trip name")
	cmd.Flags().StringVar(&destination, "destination", "", "destination")
	cmd.Flags().StringVar(&start, "start", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "last day (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&budget, "budget", 0, "total budget")
	cmd.Flags().BoolVar(&archive, "archive", false, "archive (or --archive=false to restore)")
	return cmd
}

func newTripsJoinCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "join CODE",
		Short: "Join a trip with its shareable code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, cancel, err := g.client(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			t, err := c.JoinTrip(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "joined %q (%s)\n", t.Name, t.ID)
			return nil
		},
	}
}

func newTripsMembersCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "members TRIP_ID",
		Short: "List a trip's members",
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
			members, err := c.Members(ctx, tripID)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "USER\tROLE\tJOINED")
			for _, m := range members {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", m.UserID, m.Role, m.JoinedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
}

func newTripsRemoveMemberCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-member TRIP_ID USER_ID",
		Short: "Remove a member (creator only), or yourself to leave",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tripID, err := parseID("trip id", args[0])
			if err != nil {
				return err
			}
			userID, err := parseID("user id", args[1])
			if err != nil {
				return err
			}
			c, ctx, cancel, err := g.client(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			return c.RemoveMember(ctx, tripID, userID)
		},
	}
}

func newTripsDeleteCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete TRIP_ID",
		Short: "Delete a trip with all its activities (creator only)",
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
			return c.DeleteTrip(ctx, tripID)
		},
	}
}

func printTrip(w io.Writer, t domain.Trip) {
	fmt.Fprintf(w, "%s  %s\n", t.Name, t.ID)
	fmt.Fprintf(w, "  destination: %s\n", t.Destination)
	fmt.Fprintf(w, "  dates:       %s\n", dateRange(t))
	fmt.Fprintf(w, "  trip code:   %s\n", t.TripCode)
}

func printBudget(w io.Writer, currency string, u domain.BudgetUsage) {
	if u.Budget == nil {
		fmt.Fprintf(w, "  spent:       %.2f %s (no budget set)\n", u.Spent, currency)
		return
	}
	fmt.Fprintf(w, "  budget:      %.2f %s\n", *u.Budget, currency)
	fmt.Fprintf(w, "  spent:       %.2f\n", u.Spent)
	fmt.Fprintf(w, "  remaining:   %.2f\n", *u.Remaining)
	if u.Ratio != nil {
		fmt.Fprintf(w, "  used:        %.0f%%\n", *u.Ratio*100)
	}
}

func dateRange(t domain.Trip) string {
	return t.StartDate.Format(domain.DateLayout) + " .. " + t.EndDate.Format(domain.DateLayout)
}

func parseID(what, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s %q: %w", what, s, err)
	}
	return id, nil
}

func parseDate(flag, s string) (time.Time, error) {
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: want YYYY-MM-DD, got %q", flag, s)
	}
	return d, nil
}
