package benchmarks

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/rmohan/halite-rl-env/halite"
)

// loadConstants merges the optional YAML config over the December 2018
// defaults. Keys follow the mapstructure tags of halite.Constants, e.g.
//
//	dropoff_cost: 2000
//	inspiration_enabled: false
func loadConstants() (halite.Constants, error) {
	consts := halite.DefaultConstants()
	if configPath == "" {
		return consts, nil
	}
	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return consts, fmt.Errorf("reading config %s: %w", configPath, err)
	}
	if err := v.Unmarshal(&consts); err != nil {
		return consts, fmt.Errorf("unmarshaling config %s: %w", configPath, err)
	}
	if err := consts.Validate(); err != nil {
		return consts, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	log.Info().Str("path", configPath).Msg("loaded game constants")
	return consts, nil
}
