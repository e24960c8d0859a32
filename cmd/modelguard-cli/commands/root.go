// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/l3montree-dev/modelguard/accesscontrol"
	"github.com/l3montree-dev/modelguard/database"
	"github.com/l3montree-dev/modelguard/database/repositories"
	"github.com/l3montree-dev/modelguard/services"
	"github.com/l3montree-dev/modelguard/shared"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

const defaultConfigFilename = "modelguard"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "modelguard-cli",
	Short: "Management cli",
	Long:  `The modelguard cli exports, imports and restores threat model projects directly against the database.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		shared.LoadConfig() // nolint
		return initializeConfig(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./modelguard.yaml)")
	rootCmd.PersistentFlags().String("as", "", "email of the user the command acts as")
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}

func initializeConfig(cmd *cobra.Command) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(defaultConfigFilename)
	}
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/modelguard/")

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if there isn't a config file
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		slog.Debug("no config file found")
	}

	viper.SetEnvPrefix("MODELGUARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	bindFlags(cmd.Flags())
	bindFlags(cmd.InheritedFlags())
	return nil
}

// bindFlags lets config file and environment values fill every flag the user did not set.
func bindFlags(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if !f.Changed && viper.IsSet(f.Name) {
			flags.Set(f.Name, fmt.Sprintf("%v", viper.Get(f.Name))) // nolint: errcheck
		}
		if err := viper.BindPFlag(f.Name, f); err != nil {
			slog.Error("could not bind flag to viper", "err", err)
		}
	})
}

// runWithServices builds the service graph against the configured database and invokes fn once.
func runWithServices(fn any) error {
	migrateDB()

	app := fx.New(
		fx.NopLogger,
		database.Module,
		repositories.Module,
		services.ServiceModule,
		accesscontrol.Module,
		fx.Supply(database.GetPoolConfigFromEnv()),
		fx.Invoke(fn),
	)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return app.Stop(stopCtx)
}

func resolveCaller(userRepository shared.UserRepository) (shared.Caller, error) {
	email := strings.TrimSpace(viper.GetString("as"))
	if email == "" {
		return shared.Caller{}, errors.New("--as is required")
	}
	user, err := userRepository.ReadByEmail(email)
	if err != nil {
		return shared.Caller{}, errors.Wrapf(err, "could not find user %s", email)
	}
	return shared.NewCaller(user), nil
}
