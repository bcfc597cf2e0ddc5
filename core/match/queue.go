package match

import "github.com/openrelief/missionmatch/core/model"

// Queue is the ordered sequence of offers scoped to one responder session.
// It is owned exclusively by its session and needs no locking.
type Queue struct {
	offers []model.MatchOffer
}

// NewQueue creates a queue holding the given offers in order.
func NewQueue(offers ...model.MatchOffer) *Queue {
	q := &Queue{}
	q.offers = append(q.offers, offers...)
	return q
}

// Pop removes and returns the head of the queue.
func (q *Queue) Pop() (model.MatchOffer, bool) {
	if len(q.offers) == 0 {
		return model.MatchOffer{}, false
	}
	head := q.offers[0]
	q.offers = q.offers[1:]
	return head, true
}

// Len returns the number of offers remaining.
func (q *Queue) Len() int { return len(q.offers) }

// Remaining returns a copy of the queued offers, head first.
func (q *Queue) Remaining() []model.MatchOffer {
	return append([]model.MatchOffer(nil), q.offers...)
}
