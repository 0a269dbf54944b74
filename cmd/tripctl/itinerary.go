package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/itinerary"
)

func newItineraryCmd(g *globals) *cobra.Command {
	var day string
	cmd := &cobra.Command{
		Use:   "itinerary TRIP_ID",
		Short: "Show the trip day by day, split into morning, afternoon and evening",
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
			trip, err := c.GetTrip(ctx, tripID)
			if err != nil {
				return err
			}
			s, err := loadStore(ctx, c, tripID)
			if err != nil {
				return err
			}
			it, err := s.Itinerary(trip)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if day == "" {
				for _, d := range it.Days {
					printDay(out, d)
				}
				return nil
			}
			date, err := parseDate("--day", day)
			if err != nil {
				return err
			}
			if !trip.Contains(date) {
				return fmt.Errorf("%s is outside the trip (%s)", day, dateRange(trip))
			}
			printDay(out, it.Days[int(date.Sub(domain.DateOf(trip.StartDate)).Hours()/24)])
			return nil
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "show a single day (YYYY-MM-DD)")
	return cmd
}

func printDay(w io.Writer, d itinerary.Day) {
	fmt.Fprintf(w, "Day %d  %s\n", d.Index+1, d.Date.Format("Mon 2006-01-02"))
	if d.Buckets.Len() == 0 {
		fmt.Fprintln(w, "  nothing planned")
		return
	}
	for _, part := range []struct {
		name string
		acts []domain.Activity
	}{
		{"Morning", d.Buckets.Morning},
		{"Afternoon", d.Buckets.Afternoon},
		{"Evening", d.Buckets.Evening},
	} {
		if len(part.acts) == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s\n", part.name)
		for _, a := range part.acts {
			lock := ""
			if a.IsLockedIn {
				lock = "  [locked in]"
			}
			fmt.Fprintf(w, "    %s  %s @ %s%s\n", a.Time, a.Title, a.Location, lock)
		}
	}
}

func newFreeSlotsCmd(g *globals) *cobra.Command {
	var minMinutes int
	cmd := &cobra.Command{
		Use:   "free-slots TRIP_ID",
		Short: "List unplanned windows between 08:00 and 22:00",
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
			slots, err := c.FreeSlots(ctx, tripID, minMinutes)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tFROM\tTO\tMINUTES")
			for _, s := range slots {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", s.Date.Format(domain.DateLayout), s.Start, s.End, s.DurationMinutes)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&minMinutes, "min", itinerary.DefaultMinSlotMinutes, "shortest gap to report, in minutes")
	return cmd
}
