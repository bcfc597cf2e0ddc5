package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/openrelief/missionmatch/core/model"
	"github.com/openrelief/missionmatch/core/workflow"
	"github.com/openrelief/missionmatch/infra/logger"
)

var intakeFlags struct {
	requesterID string
	phone       string
	language    string
	lat         float64
	lon         float64
	description string
}

var intakeCmd = &cobra.Command{
	Use:   "intake",
	Short: "Submit a mission and notify nearby responders",
	RunE:  runIntake,
}

func init() {
	intakeCmd.Flags().StringVar(&intakeFlags.requesterID, "requester", "", "requester identifier")
	intakeCmd.Flags().StringVar(&intakeFlags.phone, "phone", "", "requester phone number")
	intakeCmd.Flags().StringVar(&intakeFlags.language, "language", "en", "requester language")
	intakeCmd.Flags().Float64Var(&intakeFlags.lat, "lat", 0, "requester latitude")
	intakeCmd.Flags().Float64Var(&intakeFlags.lon, "lon", 0, "requester longitude")
	intakeCmd.Flags().StringVar(&intakeFlags.description, "description", "", "what help is needed")
	_ = intakeCmd.MarkFlagRequired("requester")
	_ = intakeCmd.MarkFlagRequired("phone")
	_ = intakeCmd.MarkFlagRequired("description")
	rootCmd.AddCommand(intakeCmd)
}

func runIntake(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newService()
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("intake-command").Errorf("service close: %v", err)
		}
	}()

	s := &workflow.Session{
		ID: uuid.NewString(),
		Participant: model.Participant{
			ID:          intakeFlags.requesterID,
			PhoneNumber: intakeFlags.phone,
			Language:    intakeFlags.language,
			Location:    model.Location{Latitude: intakeFlags.lat, Longitude: intakeFlags.lon},
		},
		Input:   intakeFlags.description,
		Replier: consoleReplier{},
	}
	return svc.Runner.Run(ctx, svc.Intake, s)
}
