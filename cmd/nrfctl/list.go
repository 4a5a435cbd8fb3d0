package main

import (
	"fmt"

	"github.com/google/gousb"
	"github.com/spf13/cobra"

	"github.com/herlein/gonrf/pkg/ch341"
)

var (
	cmdList = &cobra.Command{
		Use:   "list",
		Short: "List attached CH341A bridges",
		Long:  ``,
		RunE:  runList,
	}
)

func init() {
	rootCmd.AddCommand(cmdList)
}

func runList(_ *cobra.Command, _ []string) error {
	usb := gousb.NewContext()
	defer usb.Close()

	found, err := ch341.ListDevices(usb)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		fmt.Println("No CH341A devices found")
		return nil
	}
	for i, info := range found {
		fmt.Printf("#%d %s\n", i, info)
	}
	return nil
}
