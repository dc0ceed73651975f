package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hwp-tools/hwpctl/pkg/hwpctl/hwpfile"
)

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file.hwp]",
		Short: "Inspect a .hwp file offline",
		Long: `inspect reads the OLE container of a .hwp file without a running
word processor: format version, compression and encryption flags, the
stream listing and summary metadata.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := hwpfile.Inspect(args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				out, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}
			fmt.Printf("version:      %s\n", info.Version)
			fmt.Printf("compressed:   %v\n", info.Compressed)
			fmt.Printf("encrypted:    %v\n", info.Encrypted)
			fmt.Printf("distribution: %v\n", info.Distribution)
			fmt.Printf("streams:      %d\n", len(info.Streams))
			for _, s := range info.Streams {
				fmt.Printf("  %s\n", s)
			}
			for k, v := range info.Properties {
				fmt.Printf("%s: %s\n", k, v)
			}
			return nil
		},
	}
}
