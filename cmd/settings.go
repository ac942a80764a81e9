package cmd

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newSettings creates a viper instance layering the environment (FUZZ_*) under the flags of cmd that can be set
// through it. IsSet reports true for a key only when its flag was used or its variable is set, so config file values
// survive otherwise.
func newSettings(cmd *cobra.Command) (*viper.Viper, error) {
	settings := viper.New()
	settings.SetEnvPrefix(EnvPrefix)
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	for _, name := range envBoundFlags {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := settings.BindPFlag(name, flag); err != nil {
			return nil, errors.WithStack(err)
		}
		if err := settings.BindEnv(name); err != nil {
			return nil, errors.WithStack(err)
		}
	}
	return settings, nil
}
