package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/herlein/gonrf/pkg/config"
)

var (
	cmdDump = &cobra.Command{
		Use:   "dump",
		Short: "Print the radio's registers",
		Long:  `Read every register and print a decoded snapshot. With --load, print a snapshot saved earlier instead of opening a radio.`,
		RunE:  runDump,
	}
)

var dumpSave string
var dumpLoad string

func init() {
	rootCmd.AddCommand(cmdDump)
	cmdDump.Flags().StringVarP(&dumpSave, "save", "s", "", "Also write the snapshot as JSON")
	cmdDump.Flags().StringVarP(&dumpLoad, "load", "l", "", "Print a saved JSON snapshot")
}

func runDump(cmd *cobra.Command, _ []string) error {
	if dumpLoad != "" {
		dump, err := config.LoadDump(dumpLoad)
		if err != nil {
			return err
		}
		fmt.Printf("Radio %s at %s\n\n", dump.Radio, dump.Timestamp.Format(time.RFC3339))
		fmt.Println(dump.Registers.String())
		return nil
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	regs, err := s.dev.Snapshot()
	if err != nil {
		return err
	}
	fmt.Println(regs.String())

	if dumpSave != "" {
		dump := &config.Dump{Radio: s.name, Timestamp: time.Now(), Registers: *regs}
		if err := config.SaveDump(dump, dumpSave); err != nil {
			return err
		}
		fmt.Printf("\nSnapshot saved to %s\n", dumpSave)
	}
	return nil
}
