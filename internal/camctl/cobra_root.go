package camctl

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"camerad/pkg/types"
)

// Config holds cross-command settings filled from flags and environment.
type Config struct {
	Addr   string
	LogLvl string
	AsJSON bool
}

func defaultConfig() *Config {
	return &Config{
		Addr:   envStr("CAMCTL_ADDR", "127.0.0.1:8080"),
		LogLvl: envStr("CAMCTL_LOG_LEVEL", "info"),
	}
}

// buildRootCmd constructs the Cobra command tree wired to a Client.
func buildRootCmd(cfg *Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "camctl",
		Short:         "Control client for a running camerad",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfg.Addr, "addr", cfg.Addr, "camerad address (defaults CAMCTL_ADDR or 127.0.0.1:8080)")
	root.PersistentFlags().StringVar(&cfg.LogLvl, "log-level", cfg.LogLvl, "Log level: debug|info|warn|error (defaults CAMCTL_LOG_LEVEL or info)")
	root.PersistentFlags().BoolVar(&cfg.AsJSON, "json", false, "Print raw JSON responses")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		SetLogLevel(cfg.LogLvl)
	}

	client := func() *Client { return NewClient(cfg.Addr) }
	ctx := func() (context.Context, context.CancelFunc) {
		return context.WithTimeout(context.Background(), 30*time.Second)
	}

	discoverCmd := &cobra.Command{Use: "discover", Short: "Run a discovery pass and list the published devices", RunE: func(cmd *cobra.Command, args []string) error {
		c, cancel := ctx()
		defer cancel()
		resp, err := client().Discover(c)
		if err != nil {
			return err
		}
		return printDevices(cfg, resp)
	}}

	devicesCmd := &cobra.Command{Use: "devices", Short: "List published devices from the last discovery", RunE: func(cmd *cobra.Command, args []string) error {
		c, cancel := ctx()
		defer cancel()
		resp, err := client().Devices(c)
		if err != nil {
			return err
		}
		return printDevices(cfg, resp)
	}}

	selectionCmd := &cobra.Command{Use: "selection", Short: "Show the selected device UIDs", RunE: func(cmd *cobra.Command, args []string) error {
		c, cancel := ctx()
		defer cancel()
		resp, err := client().Selection(c)
		if err != nil {
			return err
		}
		return printSelection(cfg, resp)
	}}

	toggleCmd := &cobra.Command{Use: "toggle <uid>", Short: "Toggle a device in or out of the selection", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		c, cancel := ctx()
		defer cancel()
		resp, err := client().Toggle(c, args[0])
		if err != nil {
			return err
		}
		return printSelection(cfg, resp)
	}}

	openCmd := &cobra.Command{Use: "open", Short: "Open windows for every selected device", RunE: func(cmd *cobra.Command, args []string) error {
		c, cancel := ctx()
		defer cancel()
		resp, err := client().OpenWindows(c)
		if err != nil {
			return err
		}
		return printWindows(cfg, resp)
	}}

	windowsCmd := &cobra.Command{Use: "windows", Short: "List open windows and their session states", RunE: func(cmd *cobra.Command, args []string) error {
		c, cancel := ctx()
		defer cancel()
		resp, err := client().Windows(c)
		if err != nil {
			return err
		}
		return printWindows(cfg, resp)
	}}

	logCmd := &cobra.Command{Use: "log <window-id>", Short: "Show a window's rolling log", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		c, cancel := ctx()
		defer cancel()
		resp, err := client().WindowLog(c, args[0])
		if err != nil {
			return err
		}
		if cfg.AsJSON {
			return printJSON(resp)
		}
		for _, line := range resp.Lines {
			fmt.Println(line)
		}
		return nil
	}}

	closeCmd := &cobra.Command{Use: "close <window-id>|all", Short: "Close one window, or every open window", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		c, cancel := ctx()
		defer cancel()
		cl := client()
		if args[0] != "all" {
			return cl.CloseWindow(c, args[0])
		}
		resp, err := cl.Windows(c)
		if err != nil {
			return err
		}
		for _, w := range resp.Windows {
			if err := cl.CloseWindow(c, w.ID); err != nil {
				return err
			}
			debug("closed window %s (%s)", w.ID, w.DeviceName)
		}
		return nil
	}}

	statusCmd := &cobra.Command{Use: "status", Short: "Show daemon status", RunE: func(cmd *cobra.Command, args []string) error {
		c, cancel := ctx()
		defer cancel()
		resp, err := client().Status(c)
		if err != nil {
			return err
		}
		if cfg.AsJSON {
			return printJSON(resp)
		}
		fmt.Printf("authorization: %s\n", resp.Authorization)
		if resp.Error != "" {
			fmt.Printf("error: %s\n", resp.Error)
		}
		fmt.Printf("devices: %d  selected: %d  windows: %d\n", len(resp.Devices), len(resp.Selected), len(resp.Windows))
		fmt.Printf("discoveries: %d  dropped: %d  uptime: %ds\n", resp.DiscoveriesTotal, resp.DroppedTotal, resp.UptimeSeconds)
		return nil
	}}

	serveCmd := &cobra.Command{
		Use:     "serve [-- <camerad args>]",
		Short:   "Spawn a camerad in the foreground (binary from --bin or PATH)",
		Example: "  camctl serve -- --backend sim --addr :8080",
		RunE: func(cmd *cobra.Command, args []string) error {
			bin, _ := cmd.Flags().GetString("bin")
			info("starting %s", bin)
			return RunCmd(cmd.Context(), Cmd{Path: bin, Args: args})
		},
	}
	serveCmd.Flags().String("bin", "camerad", "Path to the camerad binary")

	root.AddCommand(discoverCmd, devicesCmd, selectionCmd, toggleCmd, openCmd, windowsCmd, logCmd, closeCmd, statusCmd, serveCmd)

	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(os.Stdout) }})
	root.AddCommand(completionCmd)

	return root
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printDevices(cfg *Config, resp types.DevicesResponse) error {
	if cfg.AsJSON {
		return printJSON(resp)
	}
	for _, d := range resp.Devices {
		line := fmt.Sprintf("%s  %-14s %s", d.UID, d.Category, d.Name)
		if d.Warning != "" {
			line += "  [" + d.Warning + "]"
		}
		fmt.Println(line)
	}
	return nil
}

func printSelection(cfg *Config, resp types.SelectionResponse) error {
	if cfg.AsJSON {
		return printJSON(resp)
	}
	for _, uid := range resp.Selected {
		fmt.Println(uid)
	}
	return nil
}

func printWindows(cfg *Config, resp types.WindowsResponse) error {
	if cfg.AsJSON {
		return printJSON(resp)
	}
	for _, w := range resp.Windows {
		line := fmt.Sprintf("%s  %-10s %s (%s)", w.ID, w.State, w.DeviceName, w.Category)
		if w.Preset != "" {
			line += "  preset=" + w.Preset
		}
		if w.Error != "" {
			line += "  error=" + w.Error
		}
		fmt.Println(line)
	}
	return nil
}
