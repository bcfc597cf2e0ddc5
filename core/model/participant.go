package model

import "fmt"

// Population selects which side of the marketplace a geo query targets.
type Population int

const (
	Requesters Population = iota
	Responders
)

// String returns a human-readable representation of the population.
func (p Population) String() string {
	switch p {
	case Requesters:
		return "requesters"
	case Responders:
		return "responders"
	default:
		return "unknown"
	}
}

// ParsePopulation converts a population tag back into a Population.
func ParsePopulation(s string) (Population, error) {
	switch s {
	case "requesters":
		return Requesters, nil
	case "responders":
		return Responders, nil
	default:
		return Requesters, fmt.Errorf("unknown population %q", s)
	}
}

// Location is a latitude/longitude pair. It is immutable once attached to a
// participant or mission snapshot.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Participant is a requester or responder snapshot read from the data
// service. The core never mutates participants directly.
type Participant struct {
	ID          string   `json:"id"`
	PhoneNumber string   `json:"phone_number"`
	Language    string   `json:"language"`
	Location    Location `json:"location"`
}

// Validate checks that the participant snapshot can be matched and notified.
func (p Participant) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("participant id is required")
	}
	if p.PhoneNumber == "" {
		return fmt.Errorf("participant %s has no phone number", p.ID)
	}
	return nil
}
