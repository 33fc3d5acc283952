package types

import "github.com/google/uuid"

// SeedRunResult is the ephemeral outcome of one seeding run. It is returned to
// the caller and written to the audit trail; it is never persisted itself. The
// log lines are the only record of why individual places were or were not
// promoted to destinations.
type SeedRunResult struct {
	CityID              uuid.UUID `json:"city_id"`
	CityName            string    `json:"city_name"`
	DestinationsCreated int       `json:"destinations_created"`
	Logs                []string  `json:"logs"`
}
