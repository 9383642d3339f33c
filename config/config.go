package config

import (
	"log"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ListenAddr string `default:":8080"`

	SpotifyID     string
	SpotifySecret string

	ReccobeatsURL string `default:"https://api.reccobeats.com"`
}

func ProvideConfig() Config {
	var cfg Config
	err := envconfig.Process("slipmat", &cfg)
	if err != nil {
		log.Fatal(err.Error())
	}
	return cfg
}

var Options = ProvideConfig
