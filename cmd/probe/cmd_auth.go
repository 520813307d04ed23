package main

import (
	"github.com/spf13/cobra"

	"github.com/testplatform/probe/internal/probe"
)

func (a *app) newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Log in and call a protected endpoint",
		Long: `POST the configured credentials to the login endpoint. If it answers 200,
extract the token and GET the protected endpoint with it as a bearer
credential. A rejected login prints "Login failed!" and exits 0.

A 200 login without a token is an error unless --allow-missing-token is set,
in which case the literal placeholder "None" is sent as the bearer token.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := probe.NewClient(a.cfg.API)
			if err != nil {
				return err
			}
			defer client.Close()

			_, err = probe.NewAuthFlow(client, a.cfg.Auth).Run(a.context(cmd), a.stdout)
			return err
		},
	}

	f := cmd.Flags()
	f.String("username", "", "login username")
	f.String("password", "", "login password")
	f.String("token-field", "", "JSON field of the login response holding the token")
	f.String("protected-path", "", "path of the protected endpoint")
	f.Bool("allow-missing-token", false, "send a placeholder token when the login response has none")
	bindFlag(f, "username", "auth.username")
	bindFlag(f, "password", "auth.password")
	bindFlag(f, "token-field", "auth.token_field")
	bindFlag(f, "protected-path", "auth.protected_path")
	bindFlag(f, "allow-missing-token", "auth.allow_missing_token")
	return cmd
}
