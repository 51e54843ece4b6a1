package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// SERVER_ADDR targets a running server. When empty the suite starts one in process.
	ServerAddr string `envconfig:"SERVER_ADDR"`
	// E2E_DEBUG_CBOR dumps every request/response in CBOR diagnostic notation
	DebugCBOR bool `envconfig:"E2E_DEBUG_CBOR" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
