package model

import (
	"fmt"
	"time"
)

// Mission is a time-boxed help request submitted by a requester. A mission
// stays open (discoverable) until a responder is assigned to it.
type Mission struct {
	ID           string    `json:"id"`
	CreatedByID  string    `json:"created_by_id"`
	Description  string    `json:"description"`
	Location     Location  `json:"location"`
	IsAssigned   bool      `json:"is_assigned"`
	AssignedToID string    `json:"assigned_to_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Validate checks that the mission is sound before creation.
func (m Mission) Validate() error {
	if m.CreatedByID == "" {
		return fmt.Errorf("mission requires a creator")
	}
	if m.Description == "" {
		return fmt.Errorf("mission requires a description")
	}
	return nil
}

// MatchOffer is a candidate (requester, mission) pairing surfaced to one
// responder session. Offers are ephemeral: they live in a session queue and
// are never persisted past it.
type MatchOffer struct {
	MissionID            string   `json:"mission_id"`
	RequesterID          string   `json:"requester_id"`
	RequesterPhoneNumber string   `json:"requester_phone_number"`
	Description          string   `json:"description"`
	Location             Location `json:"location"`
}

// OutgoingNotification is a write-once message handed to the queue
// collaborator. Delivery is owned by the queue consumer.
type OutgoingNotification struct {
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message"`
}
