/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gocoax",
	Short: "Finite element magnetostatics of a coaxial cable cross-section",
	Long: `
Solves for the magnetic vector potential of a coaxial cable driven by a
uniform wire current, and derives the flux density, stored energy and the
R, L, C line parameters.

gocoax solve -I coax.yaml -F coax.msh`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(viper.GetString("log.level"))
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gocoax.yaml)")
	pf.StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- R1, R2, Current, Lz\n\t- MuRWire, MuRShell, EpsRShell, Sigma")
	pf.StringP("meshFile", "F", "", "gmsh (.msh) mesh file, a polar mesh is generated when empty")
	pf.IntP("refinement", "N", 0, "rings inside the wire for the generated polar mesh")
	pf.String("solver", "", "linear solver: cholesky (band), dense or cg")
	pf.StringP("logLevel", "l", "info", "log level: debug, info, warn, error")
	for key, flag := range map[string]string{
		"input":      "inputConditionsFile",
		"mesh":       "meshFile",
		"refinement": "refinement",
		"solver":     "solver",
		"log.level":  "logLevel",
	} {
		if err := viper.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".gocoax" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".gocoax")
	}

	viper.SetEnvPrefix("gocoax")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Debugf("Using config file: %s", viper.ConfigFileUsed())
	}
}
