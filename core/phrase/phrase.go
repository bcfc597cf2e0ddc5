// Package phrase defines the message-template capability the core depends
// on. Concrete wording is owned by the injected renderer, keyed by semantic
// message id plus parameters.
package phrase

import "fmt"

// MessageID identifies a semantic message independent of wording or locale.
type MessageID string

const (
	// MatchNone is sent when no offers exist at session entry.
	MatchNone MessageID = "match.none"
	// MatchNoMore is sent when offers existed but were exhausted.
	MatchNoMore MessageID = "match.no_more"
	// MatchCount announces how many offers are available. Params: count.
	MatchCount MessageID = "match.count"
	// MatchOffer presents one offer. Params: description, location.
	MatchOffer MessageID = "match.offer"
	// MatchAccepted confirms an assignment. Params: phone_number.
	MatchAccepted MessageID = "match.accepted"
	// MissionNotification is fanned out to nearby responders.
	// Params: description, location.
	MissionNotification MessageID = "mission.notification"
	// IntakeComplete closes the requester-side intake conversation.
	IntakeComplete MessageID = "intake.complete"
)

// Params carries the named values a message template interpolates.
type Params map[string]any

// Renderer renders a message id with parameters into channel-ready text.
type Renderer interface {
	Render(id MessageID, params Params) string
}

// Catalog is the built-in English renderer.
type Catalog struct{}

// Render produces the text for the given message id. Unknown ids render to
// the id itself so a missing template is visible rather than silent.
func (Catalog) Render(id MessageID, params Params) string {
	switch id {
	case MatchNone:
		return "Unfortunately I don't have any missions near you at this time." +
			" Check back in again soon, and I will also let you know if any new missions pop up near you!"
	case MatchNoMore:
		return "That's all the missions I have near you at this time." +
			" Check back in again soon, and I will also let you know if any new missions pop up near you!"
	case MatchCount:
		n, _ := params["count"].(int)
		noun := "missions"
		if n == 1 {
			noun = "mission"
		}
		return fmt.Sprintf("I have %d %s available near you!", n, noun)
	case MatchOffer:
		return fmt.Sprintf("Here's a mission near %v - %q. Would you like to accept this mission?",
			params["location"], params["description"])
	case MatchAccepted:
		return fmt.Sprintf("This mission is now assigned to you."+
			" You can coordinate by calling or texting them at %v."+
			" I'll check back in with you periodically to see how it is coming along!",
			params["phone_number"])
	case MissionNotification:
		return fmt.Sprintf("A new mission has been received near %v - %q."+
			" Reply if you would like to take it on.",
			params["location"], params["description"])
	case IntakeComplete:
		return "Thank you! I've sent your request out to helpers near you." +
			" You will hear from one of them soon."
	default:
		return string(id)
	}
}
