package events

// OfferAction describes what happened to a presented offer. Action can be
// "presented", "accepted", "declined", or "invalidated".
type OfferAction string

const (
	OfferPresented   OfferAction = "presented"
	OfferAccepted    OfferAction = "accepted"
	OfferDeclined    OfferAction = "declined"
	OfferInvalidated OfferAction = "invalidated"
)

// OfferEvent is emitted by the presentation state machine on each transition.
type OfferEvent struct {
	SessionID string
	MissionID string
	Action    OfferAction
}

// AssignEvent is published with the outcome of a conditional assignment.
type AssignEvent struct {
	MissionID   string
	ResponderID string
	Outcome     string
	Err         error
}
