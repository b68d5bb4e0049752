package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"launchkey/config"
	"launchkey/doctor"
	"launchkey/login"
)

type options struct {
	configPath string
	logPath    string
	tui        bool
	verbose    bool
	test       bool
	background bool
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "launchkey",
		Short:         "Hotkey-activated application and URL launcher",
		Long:          "launchkey listens for a global key chord and shows a picker of configured applications and URLs.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(o)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "config file path (default: $LAUNCHKEY_CONFIG or the user config dir)")
	pf.StringVar(&o.logPath, "logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "mirror diagnostics to stderr and log debug messages")

	f := root.Flags()
	f.BoolVar(&o.tui, "tui", true, "show the status screen when attached to a terminal")
	f.BoolVar(&o.test, "test", false, "test mode (headless, stdin-driven)")
	f.BoolVar(&o.background, "background", false, "detach from the terminal and keep running")

	root.AddCommand(newDoctorCmd(o), newItemsCmd(o), newLoginCmd(), newVersionCmd())
	return root
}

func newDoctorCmd(o *options) *cobra.Command {
	var synthesize bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run system diagnostics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.ResolvePath(o.configPath))
			if err != nil {
				fmt.Printf("  FAIL: config: %v\n", err)
				os.Exit(1)
			}
			os.Exit(doctor.Run(cfg, doctor.Options{Synthesize: synthesize}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&synthesize, "synthesize", false, "type the hotkey chord automatically instead of waiting for a key press")
	return cmd
}

func newItemsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "items",
		Short: "List configured launcher items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.ResolvePath(o.configPath))
			if err != nil {
				return err
			}
			printItems(cmd.OutOrStdout(), cfg, stdoutIsTerminal())
			return nil
		},
	}
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "login [enable|disable|status]",
		Short:     "Start launchkey when you log in",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"enable", "disable", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "status"
			if len(args) == 1 {
				action = args[0]
			}
			switch action {
			case "enable":
				if err := setLogin(true); err != nil {
					return err
				}
			case "disable":
				if err := setLogin(false); err != nil {
					return err
				}
			}
			state := "disabled"
			if login.Enabled() {
				state = "enabled"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "start on login: %s\n", state)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "launchkey %s\n", version)
		},
	}
}

// printItems writes the item table in presentation order. Styling is only
// applied when styled is set.
func printItems(w io.Writer, cfg *config.Config, styled bool) {
	items := cfg.Items()
	names := cfg.Names()
	width := 4
	for _, n := range names {
		width = max(width, len(n))
	}

	head := lipgloss.NewStyle().Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	render := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	fmt.Fprintln(w, render(head, fmt.Sprintf("%-*s  %-4s  %s", width, "NAME", "KIND", "TARGET")))
	for _, n := range names {
		d := items[n]
		fmt.Fprintf(w, "%-*s  %-4s  %s\n", width, n, d.Kind, render(dim, d.Target))
	}
	src := cfg.Path
	if src == "" {
		src = "built-in defaults"
	}
	fmt.Fprintln(w, render(dim, strings.Repeat("-", width+8)+" "+src))
}

func execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
