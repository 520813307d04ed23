package main

import (
	"github.com/spf13/cobra"

	"github.com/testplatform/probe/internal/passwd"
)

func (a *app) newPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Check a password against a bcrypt hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return passwd.Run(a.stdout, a.cfg.Password.Hash, a.cfg.Password.Plaintext)
		},
	}

	f := cmd.Flags()
	f.String("hash", "", "stored bcrypt hash")
	f.String("plaintext", "", "password to check")
	bindFlag(f, "hash", "password.hash")
	bindFlag(f, "plaintext", "password.plaintext")
	return cmd
}
