// Command echofield runs the bilingual blog and its maintenance tasks.
package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("echofield failed")
		os.Exit(1)
	}
}
