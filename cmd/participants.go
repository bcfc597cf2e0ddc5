package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/openrelief/missionmatch/core/model"
	"github.com/openrelief/missionmatch/infra/logger"
)

var participantFlags struct {
	population string
	id         string
	phone      string
	language   string
	lat        float64
	lon        float64
}

var participantsCmd = &cobra.Command{
	Use:   "participants",
	Short: "Participant registry commands",
}

var participantsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register or update a participant",
	RunE:  runParticipantsAdd,
}

func init() {
	participantsAddCmd.Flags().StringVar(&participantFlags.population, "population", "responders", "requesters or responders")
	participantsAddCmd.Flags().StringVar(&participantFlags.id, "id", "", "participant identifier")
	participantsAddCmd.Flags().StringVar(&participantFlags.phone, "phone", "", "participant phone number")
	participantsAddCmd.Flags().StringVar(&participantFlags.language, "language", "en", "participant language")
	participantsAddCmd.Flags().Float64Var(&participantFlags.lat, "lat", 0, "participant latitude")
	participantsAddCmd.Flags().Float64Var(&participantFlags.lon, "lon", 0, "participant longitude")
	_ = participantsAddCmd.MarkFlagRequired("id")
	_ = participantsAddCmd.MarkFlagRequired("phone")
	participantsCmd.AddCommand(participantsAddCmd)
	rootCmd.AddCommand(participantsCmd)
}

func runParticipantsAdd(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	population, err := model.ParsePopulation(participantFlags.population)
	if err != nil {
		return err
	}
	svc, err := newService()
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("participants-command").Errorf("service close: %v", err)
		}
	}()

	p := model.Participant{
		ID:          participantFlags.id,
		PhoneNumber: participantFlags.phone,
		Language:    participantFlags.language,
		Location:    model.Location{Latitude: participantFlags.lat, Longitude: participantFlags.lon},
	}
	if err := svc.Store.UpsertParticipant(ctx, population, p); err != nil {
		return err
	}
	fmt.Printf("registered %s in %s\n", p.ID, population)
	return nil
}
