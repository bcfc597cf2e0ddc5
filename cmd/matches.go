package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/openrelief/missionmatch/app"
	"github.com/openrelief/missionmatch/core/model"
	"github.com/openrelief/missionmatch/core/workflow"
	"github.com/openrelief/missionmatch/infra/logger"
)

var matchFlags struct {
	responderID string
	phone       string
	language    string
	lat         float64
	lon         float64
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "Responder-side match presentation",
}

var matchesLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "Find nearby missions and present the first offer",
	RunE: runMatchTurn(func(ctx context.Context, svc *app.Service, s *workflow.Session) error {
		return svc.Runner.Run(ctx, svc.Presentation, s)
	}),
}

var matchesAcceptCmd = &cobra.Command{
	Use:   "accept",
	Short: "Accept the currently presented offer",
	RunE: runMatchTurn(func(ctx context.Context, svc *app.Service, s *workflow.Session) error {
		return svc.Presentation.Accept(ctx, s)
	}),
}

var matchesDeclineCmd = &cobra.Command{
	Use:   "decline",
	Short: "Decline the currently presented offer",
	RunE: runMatchTurn(func(ctx context.Context, svc *app.Service, s *workflow.Session) error {
		return svc.Presentation.Decline(ctx, s)
	}),
}

func init() {
	matchesCmd.PersistentFlags().StringVar(&matchFlags.responderID, "responder", "", "responder identifier")
	matchesCmd.PersistentFlags().StringVar(&matchFlags.phone, "phone", "", "responder phone number")
	matchesCmd.PersistentFlags().StringVar(&matchFlags.language, "language", "en", "responder language")
	matchesCmd.PersistentFlags().Float64Var(&matchFlags.lat, "lat", 0, "responder latitude")
	matchesCmd.PersistentFlags().Float64Var(&matchFlags.lon, "lon", 0, "responder longitude")
	_ = matchesCmd.MarkPersistentFlagRequired("responder")
	matchesCmd.AddCommand(matchesLsCmd, matchesAcceptCmd, matchesDeclineCmd)
	rootCmd.AddCommand(matchesCmd)
}

// runMatchTurn wires one presentation turn. The responder ID doubles as the
// session ID so accept and decline resume the persisted session.
func runMatchTurn(turn func(context.Context, *app.Service, *workflow.Session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := newService()
		if err != nil {
			return err
		}
		defer func() {
			if err := svc.Close(); err != nil {
				logger.New("matches-command").Errorf("service close: %v", err)
			}
		}()

		s := &workflow.Session{
			ID: "match:" + matchFlags.responderID,
			Participant: model.Participant{
				ID:          matchFlags.responderID,
				PhoneNumber: matchFlags.phone,
				Language:    matchFlags.language,
				Location:    model.Location{Latitude: matchFlags.lat, Longitude: matchFlags.lon},
			},
			Replier: consoleReplier{},
		}
		return turn(ctx, svc, s)
	}
}
