package main

import (
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-nitrate/internal/config"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "sample [path]",
		Short: "Print the annotated sample configuration, or write it to path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.Print(config.Sample())
				return nil
			}
			if err := config.CreateSample(args[0]); err != nil {
				return err
			}
			cmd.Printf("wrote %s\n", args[0])
			return nil
		},
	})
	return cmd
}
