package main

import (
	"github.com/spf13/cobra"

	"github.com/testplatform/probe/internal/stub"
)

func (a *app) newStubCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Serve an in-memory stand-in for the platform API",
		Long: `Serve the login, target-system-config and test-suite endpoints from
memory until interrupted. The configured user is seeded with a bcrypt hash
of its password.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := stub.New(a.cfg.Stub, stub.WithLogger(a.log))
			if err != nil {
				return err
			}
			return srv.ListenAndServe(a.context(cmd))
		},
	}

	f := cmd.Flags()
	f.String("addr", "", "listen address")
	bindFlag(f, "addr", "stub.addr")
	return cmd
}
