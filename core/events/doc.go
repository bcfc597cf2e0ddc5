// Package events defines the matching and dispatch related events emitted on
// the event bus.
//
// Available event types:
//   - MissionEvent: a mission was created through intake
//   - NotificationEvent: per-recipient notification submission result
//   - OfferEvent: an offer was presented, accepted, declined or invalidated
//   - AssignEvent: outcome of a conditional mission assignment
package events
