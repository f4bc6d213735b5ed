// Package cmd implements the dredd command-line driver: a cobra root
// command that loads configuration once, then delegates to the mutate
// subcommand.
package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/dredd-go/dredd/cmd/internal/flags"
	"github.com/dredd-go/dredd/internal/astiface"
	"github.com/dredd-go/dredd/internal/configuration"
	"github.com/dredd-go/dredd/internal/log"
)

const paramConfigFile = "config"

// Execute initialises a new cobra root command (dredd) with a custom
// version string used in the `-v` flag results. It links no parser
// frontend (the seam the mutate subcommand hands each compilation database
// entry to), so mutate fails fast with a clear message rather than panic
// deep in the traversal; ExecuteWithFrontend supplies one.
func Execute(ctx context.Context, version string) error {
	return ExecuteWithFrontend(ctx, version, nil)
}

// ExecuteWithFrontend is Execute with an explicit astiface.Frontend, for a
// build that links a real parser implementation.
func ExecuteWithFrontend(ctx context.Context, version string, frontend astiface.Frontend) error {
	rootCmd, err := newRootCmd(ctx, version, frontend)
	if err != nil {
		return err
	}

	return rootCmd.execute()
}

type dreddCmd struct {
	cmd *cobra.Command
}

func (dc dreddCmd) execute() error {
	var cfgFile string
	cobra.OnInitialize(func() {
		if err := configuration.Init([]string{cfgFile}); err != nil {
			log.Errorf("initialization error: %s\n", err)
			os.Exit(1)
		}
		if configuration.Get[bool](configuration.DreddSilentKey) {
			log.Reset()
		}
	})
	dc.cmd.PersistentFlags().StringVar(&cfgFile, paramConfigFile, "", "override config file")

	return dc.cmd.Execute()
}

func newRootCmd(ctx context.Context, version string, frontend astiface.Frontend) (*dreddCmd, error) {
	if version == "" {
		return nil, errors.New("expected a version string")
	}

	cmd := &cobra.Command{
		Hidden:        true,
		SilenceUsage:  true,
		SilenceErrors: true,
		Use:           "dredd",
		Short:         shortExplainer(),
		Version:       version,
	}

	mc, err := newMutateCmd(ctx, frontend)
	if err != nil {
		return nil, err
	}
	cmd.AddCommand(mc.cmd)

	flag := &flags.Flag{Name: "silent", CfgKey: configuration.DreddSilentKey, Shorthand: "s", DefaultV: false, Usage: "suppress output and run in silent mode"}
	if err := flags.SetPersistent(cmd, flag); err != nil {
		return nil, err
	}

	return &dreddCmd{cmd: cmd}, nil
}

func shortExplainer() string {
	return heredoc.Doc(`
		dredd rewrites a C/C++ translation unit to produce a semantically
		instrumented program in which syntactic mutations can be selected
		dynamically at runtime.
	`)
}
