package main

import (
	cmd "github.com/textveil/textveil/cmd/textveil"
	"github.com/textveil/textveil/internal"
)

var log = internal.GetLogger()

func main() {
	log.Info("Starting textveil")
	cmd.Execute()
}
