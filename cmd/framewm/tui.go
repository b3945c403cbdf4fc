package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/framewm/internal/ipc"
	"github.com/1broseidon/framewm/internal/tui"
)

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: framewm tui [--refresh DURATION]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive dashboard for a running window manager.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  tab, 1/2     Switch between windows and workspaces")
		fmt.Fprintln(os.Stderr, "  j/k, ↑/↓     Move the selection")
		fmt.Fprintln(os.Stderr, "  Enter        Activate window / switch workspace")
		fmt.Fprintln(os.Stderr, "  a, d         Add workspace / remove the last one")
		fmt.Fprintln(os.Stderr, "  i m s t x    Iconify, maximize, shade, stick, close the focused window")
		fmt.Fprintln(os.Stderr, "  + -          Raise, lower the focused window")
		fmt.Fprintln(os.Stderr, "  [ ]          Previous, next workspace")
		fmt.Fprintln(os.Stderr, "  c, r         Reconfigure, reload configuration")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C    Quit")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	refresh := fs.Duration("refresh", tui.DefaultRefresh, "Polling interval")
	if code, ok := parseNoArgs(fs, "tui", args); !ok {
		return code
	}

	if err := tui.Run(ipc.NewClient(), *refresh); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitRuntime
	}
	return 0
}
