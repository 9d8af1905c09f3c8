package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var commandCmd = &cobra.Command{
	Use:   "command <name> [arg]...",
	Short: "Run a player command",
	Long: `Run a player command such as 'loadfile', 'seek' or 'cycle'.
Arguments are parsed as JSON when possible, otherwise sent as plain
strings. The reply data, if any, is printed as JSON.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCommand,
}

var rawCmd = &cobra.Command{
	Use:   "raw <json>",
	Short: "Send a raw JSON command array",
	Long: `Send a verbatim JSON command array, e.g.
  playerctl raw '["observe_property", 1, "volume"]'
Useful for debugging the wire protocol.`,
	Args: cobra.ExactArgs(1),
	RunE: runRaw,
}

func init() {
	rootCmd.AddCommand(commandCmd)
	rootCmd.AddCommand(rawCmd)
}

func runCommand(_ *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	cmdArgs := make([]any, 0, len(args)-1)
	for _, a := range args[1:] {
		cmdArgs = append(cmdArgs, parseValue(a))
	}
	v, err := client.Command(ctx, args[0], cmdArgs...)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	return printJSON(v)
}

func runRaw(_ *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	var cmd []any
	if err := json.Unmarshal([]byte(args[0]), &cmd); err != nil {
		return fmt.Errorf("argument must be a JSON array: %w", err)
	}
	v, err := client.Do(ctx, cmd...)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	return printJSON(v)
}
