package main

import (
	"errors"
	"fmt"
	"time"

	"clinical-registry/cmd/bootstrap"
	"clinical-registry/pkg/jwt"

	"github.com/spf13/cobra"
)

func newTokenCommand() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for write access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := bootstrap.Load(envFile)
			if err != nil {
				return err
			}
			if !cfg.JWT.Enabled() {
				return errors.New("JWT_SECRET is not set")
			}

			token, tokenID, err := jwt.NewJWTService(cfg.JWT).GenerateAccessToken(subject, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "token id %s for %s\n", tokenID, subject)
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "operator name recorded as the audit actor")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to JWT_ACCESS_EXPIRY)")
	cmd.MarkFlagRequired("subject")

	return cmd
}
