package main

import (
	"log"

	"github.com/openrelief/missionmatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatalf("missionmatch: %v", err)
	}
}
