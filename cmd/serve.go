package main

import (
	"clinical-registry/cmd/bootstrap"

	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := bootstrap.New(envFile)
	if err != nil {
		return err
	}
	return app.Run()
}
