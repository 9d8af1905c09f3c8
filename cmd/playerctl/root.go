package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/avhost/playerd/internal/config"
	"github.com/avhost/playerd/internal/ipcclient"
	"github.com/avhost/playerd/internal/socketutil"
)

var (
	socketFlag string
	waitFlag   time.Duration
	client     *ipcclient.Client

	rootCmd = &cobra.Command{
		Use:   "playerctl",
		Short: "Control a running playerd over its IPC socket",
		Long: `playerctl talks to the playerd JSON IPC socket.

Properties are read and written with 'get' and 'set', player commands
run with 'command', and 'observe' streams change notifications until
interrupted. 'raw' sends a verbatim JSON request line for debugging.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			path := resolveSocketPath()
			if waitFlag > 0 {
				expanded, err := socketutil.ExpandPath(path)
				if err != nil {
					return err
				}
				if !socketutil.WaitForSocket(expanded, waitFlag) {
					return fmt.Errorf("no server answered on %s within %s", expanded, waitFlag)
				}
			}
			var err error
			client, err = ipcclient.Dial(path)
			return err
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if client != nil {
				_ = client.Close()
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&socketFlag, "socket", "", "IPC socket path (defaults to the daemon config)")
	rootCmd.PersistentFlags().DurationVar(&waitFlag, "wait", 0, "wait this long for the daemon socket to appear")
}

// resolveSocketPath picks the socket path from the flag, falling back to
// the daemon configuration and its environment overrides.
func resolveSocketPath() string {
	if socketFlag != "" {
		return socketFlag
	}
	cfg, err := config.Load(config.GetConfigPath())
	if err != nil {
		return config.DefaultConfig().Socket.Path
	}
	return cfg.Socket.Path
}

// commandContext bounds one request round trip.
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// parseValue interprets a CLI argument as JSON where it parses as JSON,
// otherwise as a plain string. "pause yes" and "volume 50" both work.
func parseValue(s string) any {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err == nil && !dec.More() {
		return v
	}
	return s
}

// printJSON writes v as one line of JSON to stdout.
func printJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
