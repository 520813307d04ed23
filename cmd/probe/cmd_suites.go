package main

import (
	"github.com/spf13/cobra"

	"github.com/testplatform/probe/internal/probe"
)

func (a *app) newSuitesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suites",
		Short: "Create a test suite, then list all suites",
		Long: `POST the configured test suite and print the response, then GET the
collection and print it whatever the create status was. Nothing is cleaned
up, so every run adds a suite.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := probe.NewClient(a.cfg.API)
			if err != nil {
				return err
			}
			defer client.Close()

			p, err := probe.NewSuiteProbe(client, a.cfg.Suite)
			if err != nil {
				return err
			}
			_, err = p.Run(a.context(cmd), a.stdout)
			return err
		},
	}

	f := cmd.Flags()
	f.String("name", "", "suite name")
	f.String("description", "", "suite description")
	f.String("type", "", "suite type (API, UI, BUSINESS)")
	f.Int("repeat", 0, "number of create-then-list runs")
	f.Float64("rate", 0, "maximum runs per second, 0 for unlimited")
	bindFlag(f, "name", "suite.name")
	bindFlag(f, "description", "suite.description")
	bindFlag(f, "type", "suite.type")
	bindFlag(f, "repeat", "suite.repeat")
	bindFlag(f, "rate", "suite.rate")
	return cmd
}
