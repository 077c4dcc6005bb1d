// Package cmd holds the lsgap command line: estimate, classify and version.
package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/katalvlaran/lsgap/config"
)

// version is overwritten at link time with -ldflags "-X ...cmd.version=".
var version = "0.1.0"

// app is the state shared by the commands of one root.
type app struct {
	v       *viper.Viper
	cfgFile string
}

func (a *app) load() (config.Config, error) {
	return config.Load(a.v, a.cfgFile)
}

// bindFlag binds a local or persistent flag of cmd to a viper key.
func (a *app) bindFlag(cmd *cobra.Command, key, flag string) {
	f := cmd.Flags().Lookup(flag)
	if f == nil {
		f = cmd.PersistentFlags().Lookup(flag)
	}
	if err := a.v.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

// NewRootCmd builds the lsgap command tree on a fresh viper instance.
func NewRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use: "lsgap",
		Short: `Re-estimate the gaps between the contigs of assembly scaffolds
by least squares over mate-pair distance constraints`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "settings file (yaml, json or toml)")
	root.PersistentFlags().StringP("input", "i", "", "input graph (yaml), - for stdin")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().Bool("log-json", false, "log as JSON")
	a.bindFlag(root, "input", "input")
	a.bindFlag(root, "log.level", "log-level")
	a.bindFlag(root, "log.json", "log-json")

	root.AddCommand(newEstimateCmd(a))
	root.AddCommand(newClassifyCmd(a))
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the command tree. It is called by main.main.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}
