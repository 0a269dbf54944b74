// Package migrations holds the goose SQL migrations for the trip planner
// schema: trips, trip_members, activities and activity_votes.
package migrations

import "embed"

// FS is passed to goose.NewProvider by cmd/api (AUTO_MIGRATE) and testutil.
//
//go:embed *.sql
var FS embed.FS
