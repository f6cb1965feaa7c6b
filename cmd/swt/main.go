package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/Mailaender/eclipse.platform.swt/internal/config"
	"github.com/Mailaender/eclipse.platform.swt/internal/display"
	"github.com/Mailaender/eclipse.platform.swt/internal/mcp"
	"github.com/Mailaender/eclipse.platform.swt/internal/platform"
	"github.com/Mailaender/eclipse.platform.swt/internal/tracker"
	"github.com/Mailaender/eclipse.platform.swt/internal/x11"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runShell(os.Args[2:]))
	case "track":
		os.Exit(runTrack(os.Args[2:]))
	case "colors":
		os.Exit(runColors(os.Args[2:]))
	case "trims":
		os.Exit(runTrims(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w *os.File) {
	fmt.Fprintln(w, "Usage: swt <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run       Open a shell and pump events until it closes")
	fmt.Fprintln(w, "  track     Run a rubber-band move/resize drag and print the result")
	fmt.Fprintln(w, "  colors    Print the resolved system colors")
	fmt.Fprintln(w, "  trims     Print the cached window trim measurements")
	fmt.Fprintln(w, "  monitors  Print the attached monitors")
	fmt.Fprintln(w, "  mcp       Serve display introspection tools over MCP stdio")
	fmt.Fprintln(w, "  help      Show this help")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// openDisplay connects to the X server and builds a display from the user
// configuration. The caller must keep running on the calling goroutine.
func openDisplay(configPath string) (*display.Display, *x11.Connection, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := newLogger(cfg.LogLevel)
	conn, err := x11.Connect()
	if err != nil {
		return nil, nil, nil, err
	}
	d, err := display.New(conn, display.Options{
		HoverDelay:     cfg.HoverDelay(),
		TrimPrefsPath:  cfg.TrimCachePath,
		ColorOverrides: cfg.Colors,
		Logger:         logger,
	})
	if err != nil {
		conn.Close()
		return nil, nil, nil, err
	}
	return d, conn, logger, nil
}

// disposeOnSignal disposes the display from its own goroutine when the
// process is interrupted.
func disposeOnSignal(d *display.Display) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		_ = d.AsyncExec(func() { _ = d.Dispose() })
	}()
}

// pump runs the event loop until the display is disposed.
func pump(d *display.Display, logger *slog.Logger) {
	for !d.IsDisposed() {
		more, err := d.ReadAndDispatch()
		if err != nil {
			if !d.IsDisposed() {
				logger.Error("dispatching", "error", err)
			}
			return
		}
		if !more {
			if _, err := d.Sleep(); err != nil {
				return
			}
		}
	}
}

func runShell(args []string) int {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	width := fs.Int("width", 400, "shell width")
	height := fs.Int("height", 300, "shell height")
	_ = fs.Parse(args)

	d, conn, logger, err := openDisplay(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer conn.Close()
	disposeOnSignal(d)

	shell, err := display.NewShell(d, display.ShellOptions{
		Bounds: platform.Rect{X: 100, Y: 100, Width: *width, Height: *height},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	_ = shell.AddListener(display.EventClose, listenerFunc(func(e *display.Event) {
		logger.Info("shell closed")
	}))
	_ = shell.AddListener(display.EventDispose, listenerFunc(func(e *display.Event) {
		_ = d.AsyncExec(func() { _ = d.Dispose() })
	}))
	if err := shell.Open(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	pump(d, logger)
	return 0
}

func runTrack(args []string) int {
	fs := flag.NewFlagSet("track", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	x := fs.Int("x", 200, "initial rectangle x")
	y := fs.Int("y", 200, "initial rectangle y")
	width := fs.Int("width", 300, "initial rectangle width")
	height := fs.Int("height", 200, "initial rectangle height")
	resize := fs.Bool("resize", false, "resize instead of move")
	stippled := fs.Bool("stippled", false, "draw stippled outlines")
	_ = fs.Parse(args)

	d, conn, logger, err := openDisplay(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer conn.Close()
	defer func() { _ = d.Dispose() }()

	style := tracker.Style(0)
	if *resize {
		style |= tracker.Resize
	}
	t, err := tracker.New(d, style)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := t.SetRectangles([]platform.Rect{{X: *x, Y: *y, Width: *width, Height: *height}}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	_ = t.SetStippled(*stippled)

	committed, err := t.Open()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if !committed {
		logger.Info("drag cancelled")
		return 1
	}
	rects, err := t.GetRectangles()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, r := range rects {
		fmt.Printf("%d,%d %dx%d\n", r.X, r.Y, r.Width, r.Height)
	}
	return 0
}

func runColors(args []string) int {
	fs := flag.NewFlagSet("colors", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	_ = fs.Parse(args)

	d, conn, _, err := openDisplay(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer conn.Close()
	defer func() { _ = d.Dispose() }()

	colors, err := d.SystemColors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for name, rgb := range colors {
		fmt.Printf("%-28s #%02x%02x%02x\n", name, rgb.Red, rgb.Green, rgb.Blue)
	}
	return 0
}

func runTrims(args []string) int {
	fs := flag.NewFlagSet("trims", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	_ = fs.Parse(args)

	d, conn, _, err := openDisplay(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer conn.Close()
	defer func() { _ = d.Dispose() }()

	names := []string{"none", "border", "resize", "title+border", "title+resize", "title"}
	for kind, name := range names {
		w, h, err := d.TrimSize(kind)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("%-14s %2d x %2d\n", name, w, h)
	}
	return 0
}

func runMonitors(args []string) int {
	fs := flag.NewFlagSet("monitors", flag.ExitOnError)
	_ = fs.Parse(args)

	conn, err := x11.Connect()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer conn.Close()

	monitors, err := conn.Monitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, m := range monitors {
		primary := ""
		if m.Primary {
			primary = " (primary)"
		}
		fmt.Printf("%-12s %d,%d %dx%d%s\n", m.Name,
			m.Bounds.X, m.Bounds.Y, m.Bounds.Width, m.Bounds.Height, primary)
	}
	return 0
}

func runMCP(args []string) int {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	_ = fs.Parse(args)

	d, conn, logger, err := openDisplay(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer conn.Close()
	disposeOnSignal(d)

	srv, err := mcp.NewServer(d)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := srv.Run(ctx); err != nil {
			logger.Error("mcp server stopped", "error", err)
		}
		_ = d.AsyncExec(func() { _ = d.Dispose() })
	}()

	pump(d, logger)
	return 0
}

// listenerFunc adapts a func to the display.Listener interface.
type listenerFunc func(*display.Event)

func (f listenerFunc) HandleEvent(e *display.Event) { f(e) }
