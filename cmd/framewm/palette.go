package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/framewm/internal/ipc"
	"github.com/1broseidon/framewm/internal/palette"
)

func runPalette(args []string) int {
	fs := flag.NewFlagSet("palette", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: framewm palette [--launcher NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Pick a window, workspace or command in rofi or dmenu.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	launcher := fs.String("launcher", "auto", "Launcher to use: auto, rofi or dmenu")
	if code, ok := parseNoArgs(fs, "palette", args); !ok {
		return code
	}

	backend, err := palette.NewBackend(*launcher)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitRuntime
	}
	out, err := palette.Open(backend, ipc.NewClient())
	if err != nil {
		if errors.Is(err, palette.ErrCancelled) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return exitRuntime
	}
	if out != "" {
		fmt.Println(out)
	}
	return 0
}
