package models

import (
	"github.com/textveil/textveil/config"
)

// AppState is a struct that holds the state of the application
// Use cmd.NewAppState to create a new instance
type AppState struct {
	Anonymizer   AnonymizerEngine
	Deanonymizer DeanonymizerEngine
	Config       *config.Config
}
