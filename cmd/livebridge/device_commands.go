package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"livebridge/internal/browser"
)

func newDeviceCommand(ctx *commandContext) *cobra.Command {
	deviceCmd := &cobra.Command{
		Use:   "device",
		Short: "Device loading utilities",
	}

	deviceCmd.AddCommand(newDeviceAddCommand(ctx))
	deviceCmd.AddCommand(newDeviceListCommand())
	deviceCmd.AddCommand(newDeviceResolveCommand())

	return deviceCmd
}

func newDeviceAddCommand(ctx *commandContext) *cobra.Command {
	var trackIndex int
	var category string

	cmd := &cobra.Command{
		Use:   "add <device-name>",
		Short: "Load a device onto a track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			resp, err := client.AddDevice(cmd.Context(), trackIndex, args[0], category)
			if err != nil {
				return wrapReachError(err, client.BaseURL())
			}
			stdout := cmd.OutOrStdout()
			fmt.Fprintf(stdout, "Loaded %q onto track %d\n", args[0], trackIndex)
			if len(resp.Result) > 0 && string(resp.Result) != "null" {
				fmt.Fprintf(stdout, "Result: %s\n", resp.Result)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&trackIndex, "track", "t", 0, "Track index, 0-based")
	cmd.Flags().StringVar(&category, "category", "", "Device category hint (defaults to audio effects)")
	return cmd
}

func newDeviceListCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "list",
		Short:       "List device names with catalogued browser locations",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			devices := browser.Devices()
			rows := make([][]string, 0, len(devices))
			for _, device := range devices {
				rows = append(rows, []string{device.Name, device.URI})
			}
			stdout := cmd.OutOrStdout()
			fmt.Fprintln(stdout, renderTable([]string{"Device", "Browser URI"}, rows))
			fmt.Fprintln(stdout, "Names outside this catalog resolve through the audio-effects query pattern.")
			return nil
		},
	}
}

func newDeviceResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "resolve <device-name>",
		Short:       "Print the browser URI a device name maps to",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), browser.ResolveDeviceURI(args[0]))
			return nil
		},
	}
}
