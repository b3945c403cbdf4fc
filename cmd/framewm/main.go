package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/ipc"
	"github.com/1broseidon/framewm/internal/wm"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}
	os.Exit(dispatch(os.Args[1], os.Args[2:]))
}

func dispatch(cmd string, args []string) int {
	switch cmd {
	case "run":
		return runWM(args)
	case "status":
		return runStatus(args)
	case "windows":
		return runWindows(args)
	case "workspace":
		return runWorkspace(args)
	case "command":
		return runCommand(args)
	case "reconfigure":
		return runSimple("reconfigure", args, func(c *ipc.Client) error { return c.Reconfigure() })
	case "reload":
		return runSimple("reload", args, func(c *ipc.Client) error { return c.Reload() })
	case "palette":
		return runPalette(args)
	case "tui":
		return runTUI(args)
	case "config":
		return runConfig(args)
	case "mcp":
		return runMCP(args)
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printMainUsage(os.Stderr)
		return exitUsage
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: framewm <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Manage the X display (foreground)")
	fmt.Fprintln(w, "  status              Show window manager status")
	fmt.Fprintln(w, "  windows             List managed windows")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  workspace list      List workspaces")
	fmt.Fprintln(w, "  workspace switch    Switch to a workspace")
	fmt.Fprintln(w, "  workspace add       Append a workspace")
	fmt.Fprintln(w, "  workspace remove    Remove the last workspace")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  command <name>      Run a window manager command")
	fmt.Fprintln(w, "  reconfigure         Re-apply style and policies")
	fmt.Fprintln(w, "  reload              Reload the configuration file")
	fmt.Fprintln(w, "  palette             Open the rofi/dmenu palette")
	fmt.Fprintln(w, "  tui                 Open the interactive dashboard")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'framewm <command> --help' for command-specific options.")
}

// parseNoArgs parses a flag set that takes no positional arguments. ok is
// false when the caller should return code.
func parseNoArgs(fs *flag.FlagSet, name string, args []string) (code int, ok bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return exitUsage, false
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", name)
		fs.Usage()
		return exitUsage, false
	}
	return 0, true
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: framewm status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show window manager status via IPC.")
	}
	jsonOut := fs.Bool("json", false, "Output as JSON")
	if code, ok := parseNoArgs(fs, "status", args); !ok {
		return code
	}

	st, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitRuntime
	}
	if *jsonOut {
		return printJSON(st)
	}
	fmt.Printf("workspace:      %d (%s)\n", st.Workspace, st.WorkspaceName)
	fmt.Printf("workspaces:     %d\n", st.Workspaces)
	fmt.Printf("windows:        %d\n", st.Windows)
	fmt.Printf("icons:          %d\n", st.Icons)
	if st.Focused != 0 {
		fmt.Printf("focused:        0x%x %s\n", st.Focused, st.FocusedTitle)
	} else {
		fmt.Printf("focused:        none\n")
	}
	fmt.Printf("style:          %s\n", st.Style)
	fmt.Printf("uptime_seconds: %d\n", st.UptimeSeconds)
	return 0
}

func runWindows(args []string) int {
	fs := flag.NewFlagSet("windows", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: framewm windows [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List managed windows.")
	}
	jsonOut := fs.Bool("json", false, "Output as JSON")
	if code, ok := parseNoArgs(fs, "windows", args); !ok {
		return code
	}

	wins, err := ipc.NewClient().ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitRuntime
	}
	if *jsonOut {
		return printJSON(wins)
	}
	writeWindows(os.Stdout, wins)
	return 0
}

func writeWindows(w io.Writer, wins []wm.WindowInfo) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWS\tGEOMETRY\tSTATE\tTITLE")
	for _, win := range wins {
		fmt.Fprintf(tw, "0x%x\t%d\t%dx%d+%d+%d\t%s\t%s\n",
			win.ID, win.Workspace,
			win.Frame.Width, win.Frame.Height, win.Frame.X, win.Frame.Y,
			windowState(win), win.Title)
	}
	tw.Flush()
}

func windowState(win wm.WindowInfo) string {
	var flags []byte
	for _, f := range []struct {
		on bool
		c  byte
	}{
		{win.Focused, 'f'},
		{win.Iconic, 'i'},
		{win.Shaded, 's'},
		{win.Stuck, 'S'},
		{win.Maximized != "" && win.Maximized != "none", 'm'},
	} {
		if f.on {
			flags = append(flags, f.c)
		}
	}
	if len(flags) == 0 {
		return "-"
	}
	return string(flags)
}

func runCommand(args []string) int {
	fs := flag.NewFlagSet("command", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: framewm command <name>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run a window manager command. Window commands act on the focused window.")
		fmt.Fprintln(os.Stderr, "Names: workspace_next, workspace_prev, iconify, close, maximize, shade, stick, raise, lower")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return exitUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}

	res, err := ipc.NewClient().Run(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitRuntime
	}
	printResult(res)
	return 0
}

func runSimple(name string, args []string, call func(*ipc.Client) error) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: framewm %s\n", name)
	}
	if code, ok := parseNoArgs(fs, name, args); !ok {
		return code
	}
	if err := call(ipc.NewClient()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitRuntime
	}
	return 0
}

func printResult(res *ipc.ResultData) {
	if res.Reason != "" {
		fmt.Printf("%s: %s\n", res.Outcome, res.Reason)
		return
	}
	fmt.Println(res.Outcome)
}

func printJSON(v any) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitRuntime
	}
	fmt.Println(string(data))
	return 0
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  framewm config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  framewm config print [--path PATH] [--effective|--defaults]")
		fmt.Fprintln(os.Stderr, "  framewm config explain [--path PATH] <yaml.path>")
		return exitUsage
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/framewm/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return exitUsage
		}
		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitRuntime
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/framewm/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		_ = fs.Bool("effective", false, "Print effective config (default)")
		if err := fs.Parse(args[1:]); err != nil {
			return exitUsage
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return exitRuntime
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitRuntime
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/framewm/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return exitUsage
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return exitUsage
		}
		queryPath := fs.Arg(0)

		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitRuntime
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitRuntime
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitRuntime
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n", args[0])
		return exitUsage
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceBuiltin:
		if src.Name != "" {
			return "builtin:" + src.Name
		}
		return "builtin"
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}
