// Package workflow expresses each conversational flow as an ordered sequence
// of named steps over a session, composed by a session-level runner instead
// of dialog subclassing.
package workflow

import (
	"context"
	"fmt"

	"github.com/openrelief/missionmatch/core/logger"
	"github.com/openrelief/missionmatch/core/model"
)

// Replier sends text back to the session's conversational channel.
type Replier interface {
	Reply(ctx context.Context, text string) error
}

// Session is the per-conversation context a workflow operates on. Sessions
// are owned by a single logical task; no two operations of the same session
// run concurrently.
type Session struct {
	ID          string
	Participant model.Participant
	// Input is the free text captured by the surrounding conversational
	// layer for the current turn (e.g. the mission description).
	Input   string
	Replier Replier

	// Mission is set by intake once the mission has been created.
	Mission *model.Mission
}

// Step is one unit of a workflow.
type Step struct {
	Name string
	Run  func(ctx context.Context, s *Session) error
}

// Workflow produces the ordered steps for a session.
type Workflow interface {
	Name() string
	Steps(s *Session) []Step
}

// Runner executes a workflow's steps in order, aborting on the first error.
type Runner struct {
	log logger.Logger
}

// NewRunner creates a step runner.
func NewRunner(log logger.Logger) *Runner {
	return &Runner{log: log}
}

// Run executes every step of the workflow against the session. A step error
// is fatal to the workflow and returned to the caller.
func (r *Runner) Run(ctx context.Context, wf Workflow, s *Session) error {
	for _, step := range wf.Steps(s) {
		r.log.Debugw("workflow step", map[string]any{
			"workflow": wf.Name(),
			"step":     step.Name,
			"session":  s.ID,
		})
		if err := step.Run(ctx, s); err != nil {
			return fmt.Errorf("workflow %s step %s: %w", wf.Name(), step.Name, err)
		}
	}
	return nil
}
