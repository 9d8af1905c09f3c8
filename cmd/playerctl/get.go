package main

import (
	"github.com/spf13/cobra"
)

var getString bool

var getCmd = &cobra.Command{
	Use:   "get <property>",
	Short: "Read a property",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().BoolVar(&getString, "string", false, "read the string-formatted value")
}

func runGet(_ *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	var v any
	var err error
	if getString {
		v, err = client.GetPropertyString(ctx, args[0])
	} else {
		v, err = client.GetProperty(ctx, args[0])
	}
	if err != nil {
		return err
	}
	return printJSON(v)
}
