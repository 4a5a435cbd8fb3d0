package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/herlein/gonrf/pkg/config"
	"github.com/herlein/gonrf/pkg/profiles"
)

var (
	cmdProfiles = &cobra.Command{
		Use:   "profiles",
		Short: "List built-in profiles",
		Long:  ``,
		RunE:  runProfiles,
	}
	cmdProfilesGenerate = &cobra.Command{
		Use:   "generate <dir>",
		Short: "Write every profile as JSON with its register values",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfilesGenerate,
	}
	cmdProfilesExport = &cobra.Command{
		Use:   "export <profile> [path]",
		Short: "Write a profile as an HCL session file",
		Long:  `Write a single-radio session file for the profile. The default path is etc/nrf24/<profile>.hcl.`,
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runProfilesExport,
	}
)

func init() {
	rootCmd.AddCommand(cmdProfiles)
	cmdProfiles.AddCommand(cmdProfilesGenerate)
	cmdProfiles.AddCommand(cmdProfilesExport)
}

func runProfiles(_ *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCHANNEL\tRATE\tPOWER\tRETRY\tACK\tPAYLOAD\tDESCRIPTION")
	for _, p := range profiles.All() {
		fmt.Fprintf(w, "%s\t%d\t%s\t%d dBm\t%d x %d µs\t%t\t%d\t%s\n",
			p.Name, p.Channel, p.DataRate, p.PowerDBm, p.RetryCount, p.RetryDelayUS, p.AutoAck, p.PayloadSize, p.Description)
	}
	return w.Flush()
}

func runProfilesGenerate(_ *cobra.Command, args []string) error {
	if err := profiles.GenerateProfiles(args[0]); err != nil {
		return err
	}
	fmt.Printf("Wrote %d profiles to %s\n", len(profiles.All()), args[0])
	return nil
}

func runProfilesExport(_ *cobra.Command, args []string) error {
	p, err := profiles.Get(args[0])
	if err != nil {
		return err
	}
	path := config.GetConfigPath(p.Name)
	if len(args) == 2 {
		path = args[1]
	}
	if err := config.SaveToFile(p.Name, p.ToConfig(), path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
