package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check daemon health over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			resp, err := client.Health(cmd.Context())
			if err != nil {
				return wrapReachError(err, client.BaseURL())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Daemon healthy at %s (status: %s)\n", client.BaseURL(), resp.Status)
			return nil
		},
	}
}
