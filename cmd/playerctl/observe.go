package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/avhost/playerd/internal/ipcclient"
)

var observeString bool

var observeCmd = &cobra.Command{
	Use:   "observe <property>...",
	Short: "Stream property change notifications",
	Long: `Subscribe to one or more properties and print each change as a
JSON line until interrupted. The current value is printed once per
property when the subscription starts.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runObserve,
}

func init() {
	rootCmd.AddCommand(observeCmd)
	observeCmd.Flags().BoolVar(&observeString, "string", false, "receive string-formatted values")
}

// propertyName resolves the property a change event refers to. The
// locally registered name wins; events under ids this invocation did not
// register keep the name the server sent.
func propertyName(names map[int64]string, ev ipcclient.Event) string {
	if name, ok := names[ev.ID]; ok {
		return name
	}
	name, _ := ev.Fields["name"].(string)
	return name
}

func runObserve(_ *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	names := make(map[int64]string, len(args))
	for i, name := range args {
		id := int64(i + 1)
		var err error
		if observeString {
			err = client.ObservePropertyString(ctx, id, name)
		} else {
			err = client.ObserveProperty(ctx, id, name)
		}
		if err != nil {
			return err
		}
		names[id] = name
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			return nil
		case ev, ok := <-client.Events():
			if !ok {
				return nil
			}
			if ev.Name != "property-change" {
				continue
			}
			out := map[string]any{
				"name": propertyName(names, ev),
				"data": ev.Fields["data"],
			}
			if err := printJSON(out); err != nil {
				return err
			}
		}
	}
}
