package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envVarPrefix = "RECAPTURE"

var cfgFile string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "recapture",
	Short: "recapture estimates population sizes from capture-recapture surveys",
	Long: `recapture estimates the proportion of tagged individuals in a population from
one or more recapture groups, and from it the size of the population. Each estimate is a
posterior mean with a highest posterior density (HPD) credible interval.`,
}

// Execute is the main entrypoint for the recapture CLI.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file with flag values (e.g., recapture.yml)")
}

// initConfig reads in the config file if set.
func initConfig() {
	if err := readConfig(cfgFile); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func readConfig(filename string) error {
	if filename == "" {
		return nil
	}
	viper.SetConfigFile(filename)
	return viper.ReadInConfig()
}
