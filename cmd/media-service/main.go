package main

import (
	"flag"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/config"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/logger"
	"github.com/pa816859-hue/shiny-octo-succotash/mediaservice"
)

func main() {
	// Optional overrides for local runs
	port := flag.Int("port", 0, "Override MEDIA_GALLERY_HTTP_PORT")
	mediaRoot := flag.String("media-root", "", "Override MEDIA_GALLERY_MEDIA_ROOT")
	flag.Parse()

	log := logger.New("media-service")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *port != 0 {
		cfg.HTTPPort = *port
	}
	if *mediaRoot != "" {
		cfg.MediaRoot = *mediaRoot
	}

	if err := mediaservice.RunWithConfig(cfg); err != nil {
		log.Fatal().Err(err).Msg("media service exited")
	}
}
