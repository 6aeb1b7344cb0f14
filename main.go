package main

import (
	"log"

	"github.com/avrelian/photohost/cmd"
	"github.com/avrelian/photohost/config"
)

func main() {
	log.Printf("photohost %s (%s)", config.Version, config.CommitHash)
	cmd.Execute()
}
