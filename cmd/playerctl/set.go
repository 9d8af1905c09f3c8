package main

import (
	"github.com/spf13/cobra"
)

var setString bool

var setCmd = &cobra.Command{
	Use:   "set <property> <value>",
	Short: "Write a property",
	Long: `Write a property. The value is parsed as JSON when possible,
otherwise sent as a plain string. With --string the value is always
sent as a string and parsed server-side.`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
	setCmd.Flags().BoolVar(&setString, "string", false, "send the value as a string")
}

func runSet(_ *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	if setString {
		return client.SetPropertyString(ctx, args[0], args[1])
	}
	return client.SetProperty(ctx, args[0], parseValue(args[1]))
}
