package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/1broseidon/framewm/internal/ipc"
	"github.com/1broseidon/framewm/internal/wm"
)

func printWorkspaceUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  framewm workspace list [--json]")
	fmt.Fprintln(w, "  framewm workspace switch <name|index>")
	fmt.Fprintln(w, "  framewm workspace add [name]")
	fmt.Fprintln(w, "  framewm workspace remove")
}

func runWorkspace(args []string) int {
	if len(args) == 0 {
		printWorkspaceUsage(os.Stderr)
		return exitUsage
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printWorkspaceUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() { fmt.Fprintln(os.Stderr, "Usage: framewm workspace list [--json]") }
		jsonOut := fs.Bool("json", false, "Output as JSON")
		if code, ok := parseNoArgs(fs, "workspace list", args[1:]); !ok {
			return code
		}
		spaces, err := client.ListWorkspaces()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitRuntime
		}
		if *jsonOut {
			return printJSON(spaces)
		}
		for _, ws := range spaces {
			marker := " "
			if ws.Current {
				marker = "*"
			}
			fmt.Printf("%s %d  %-20s %d windows\n", marker, ws.Index, ws.Name, ws.Windows)
		}
		return 0

	case "switch":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: framewm workspace switch <name|index>")
			return exitUsage
		}
		spaces, err := client.ListWorkspaces()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitRuntime
		}
		idx, err := findWorkspace(spaces, args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitRuntime
		}
		res, err := client.SwitchWorkspace(idx)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitRuntime
		}
		printResult(res)
		return 0

	case "add":
		if len(args) > 2 {
			fmt.Fprintln(os.Stderr, "Usage: framewm workspace add [name]")
			return exitUsage
		}
		name := ""
		if len(args) == 2 {
			name = args[1]
		}
		info, err := client.AddWorkspace(name)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitRuntime
		}
		fmt.Printf("added workspace %d (%s)\n", info.Index, info.Name)
		return 0

	case "remove":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: framewm workspace remove")
			return exitUsage
		}
		res, err := client.RemoveWorkspace()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitRuntime
		}
		printResult(res)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown workspace command: %s\n\n", args[0])
		printWorkspaceUsage(os.Stderr)
		return exitUsage
	}
}

// findWorkspace resolves a name (case-insensitive) or an index. A name
// match wins over an index.
func findWorkspace(spaces []wm.WorkspaceInfo, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	for _, ws := range spaces {
		if strings.EqualFold(ws.Name, ref) {
			return ws.Index, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 0 && n < len(spaces) {
		return n, nil
	}
	return 0, fmt.Errorf("unknown workspace %q", ref)
}
