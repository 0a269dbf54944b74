// Package handler implements the HTTP handlers for the trip planner API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, activity.go, etc.) but all share the same Server
// struct so they can access its dependencies. Routes wires them into chi.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/itinerary"
	"github.com/pkordes/trip-planner/internal/service"
)

// TripServicer defines the trip and membership operations the handlers use.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, sess domain.Session, trip domain.Trip) (domain.Trip, error)
	Get(ctx context.Context, sess domain.Session, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context, sess domain.Session, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, sess domain.Session, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, sess domain.Session, id uuid.UUID) error
	Join(ctx context.Context, sess domain.Session, code string) (domain.Trip, error)
	Members(ctx context.Context, sess domain.Session, tripID uuid.UUID) ([]domain.TripMember, error)
	RemoveMember(ctx context.Context, sess domain.Session, tripID, userID uuid.UUID) error
	BudgetUsage(ctx context.Context, sess domain.Session, tripID uuid.UUID) (domain.BudgetUsage, error)
}

// ActivityServicer defines the activity operations the handlers use.
type ActivityServicer interface {
	Create(ctx context.Context, sess domain.Session, a domain.Activity) (domain.Activity, error)
	Get(ctx context.Context, sess domain.Session, tripID, id uuid.UUID) (domain.Activity, error)
	List(ctx context.Context, sess domain.Session, tripID uuid.UUID) ([]domain.Activity, error)
	Update(ctx context.Context, sess domain.Session, a domain.Activity) (domain.Activity, error)
	Delete(ctx context.Context, sess domain.Session, tripID, id uuid.UUID) error
	SetLockedIn(ctx context.Context, sess domain.Session, tripID, id uuid.UUID, locked bool) (domain.Activity, error)
}

// VoteServicer defines the vote operations the handlers use.
type VoteServicer interface {
	Toggle(ctx context.Context, sess domain.Session, tripID, activityID uuid.UUID) (service.VoteResult, error)
	Voters(ctx context.Context, sess domain.Session, tripID, activityID uuid.UUID) ([]domain.ActivityVote, error)
	Threshold() int
}

// ItineraryServicer defines the itinerary views the handlers use.
type ItineraryServicer interface {
	Itinerary(ctx context.Context, sess domain.Session, tripID uuid.UUID) (itinerary.Itinerary, error)
	Day(ctx context.Context, sess domain.Session, tripID uuid.UUID, date time.Time) (itinerary.Day, error)
	FreeSlots(ctx context.Context, sess domain.Session, tripID uuid.UUID, minMinutes int) ([]domain.TimeSlot, error)
}

// Server holds the dependencies of every API handler.
type Server struct {
	trips       TripServicer
	activities  ActivityServicer
	votes       VoteServicer
	itineraries ItineraryServicer
	log         *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(trips TripServicer, activities ActivityServicer, votes VoteServicer, itineraries ItineraryServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{trips: trips, activities: activities, votes: votes, itineraries: itineraries, log: log}
}

// Routes returns the API router. /healthz and /openapi.yaml are public;
// every other route runs behind authn, which must store a domain.Session in
// the request context (see middleware.NewAuthenticator).
func (s *Server) Routes(authn func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "bad_request", "method not allowed")
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Group(func(r chi.Router) {
		r.Use(authn)

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", s.ListTrips)
			r.Post("/", s.CreateTrip)
			r.Post("/join", s.JoinTrip)

			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", s.GetTrip)
				r.Put("/", s.UpdateTrip)
				r.Delete("/", s.DeleteTrip)

				r.Get("/members", s.ListMembers)
				r.Delete("/members/{userID}", s.RemoveMember)
				r.Get("/budget", s.GetBudget)

				r.Get("/itinerary", s.GetItinerary)
				r.Get("/itinerary/{date}", s.GetItineraryDay)
				r.Get("/free-slots", s.GetFreeSlots)

				r.Route("/activities", func(r chi.Router) {
					r.Get("/", s.ListActivities)
					r.Post("/", s.CreateActivity)
					r.Route("/{activityID}", func(r chi.Router) {
						r.Get("/", s.GetActivity)
						r.Put("/", s.UpdateActivity)
						r.Delete("/", s.DeleteActivity)
						r.Put("/lock", s.LockActivity)
						r.Post("/vote", s.ToggleVote)
						r.Get("/votes", s.ListVotes)
					})
				})
			})
		})
	})
	return r
}
