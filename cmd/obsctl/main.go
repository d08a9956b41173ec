package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
)

const version = "1.0.0"

func printVersion() {
	fmt.Printf("obsctl v%s\n", version)
	fmt.Println("Remote-control client for OBS Studio over WebSocket")
}

func printUsage() {
	printVersion()
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  obsctl [OPTIONS] <command> [args]")
	fmt.Println()
	fmt.Println("COMMANDS:")
	fmt.Println("  toggle-stream")
	fmt.Println("        Toggle streaming")
	fmt.Println()
	fmt.Println("  toggle-record")
	fmt.Println("        Toggle recording")
	fmt.Println()
	fmt.Println("  toggle-mute [input]")
	fmt.Printf("        Toggle mute on the given input (default %q)\n", defaultInputName)
	fmt.Println()
	fmt.Println("  set-scene <scene>")
	fmt.Println("        Switch the current program scene")
	fmt.Println()
	fmt.Println("  set-volume [input] <volume>")
	fmt.Println("        Set absolute volume. Use dB for the decibel scale (e.g. -6dB)")
	fmt.Println("        or % / a bare number for linear gain (e.g. 50%)")
	fmt.Println()
	fmt.Println("  fade-input [input] <volume> [duration]")
	fmt.Printf("        Fade from the current volume to the target over duration\n")
	fmt.Printf("        seconds (default %.0f). Runs at %d volume updates per second.\n", defaultFadeDurationS, tickRateHz)
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  --config string")
	fmt.Printf("        Path to YAML config file (default <config-dir>/%s/config.yaml)\n", appName)
	fmt.Println()
	fmt.Println("  --host string")
	fmt.Printf("        OBS WebSocket host (default %q)\n", defaultHost)
	fmt.Println()
	fmt.Println("  --port int")
	fmt.Printf("        OBS WebSocket port (default %d)\n", defaultPort)
	fmt.Println()
	fmt.Println("  --timeout-ms int")
	fmt.Printf("        Timeout for websocket responses in ms (default %d)\n", defaultReadTimeoutMS)
	fmt.Println()
	fmt.Println("  --password-file string")
	fmt.Printf("        Path to the WebSocket password file (default <config-dir>/%s/%s)\n", appName, passwordFileName)
	fmt.Println()
	fmt.Println("  --input string")
	fmt.Printf("        Default input name for volume and mute commands (default %q)\n", defaultInputName)
	fmt.Println()
	fmt.Println("  --log-level string")
	fmt.Println("        Log level: error, warn, info, debug (default \"info\")")
	fmt.Println()
	fmt.Println("  --version")
	fmt.Println("        Print version and exit")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  obsctl toggle-stream")
	fmt.Println("  obsctl set-volume -6dB")
	fmt.Println("  obsctl fade-input \"Desktop Audio\" 50% 2")
	fmt.Println("  obsctl --host studio.lan set-scene Interview")
	fmt.Println()
	fmt.Println("NOTES:")
	fmt.Println("  - OBS must be running with 'Enable WebSocket server' checked under")
	fmt.Println("    Tools -> WebSocket Server Settings")
	fmt.Println("  - If the server requires a password, write it as a single line in")
	fmt.Println("    the password file")
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("obsctl", flag.ContinueOnError)
	fs.Usage = printUsage
	// Stop flag parsing at the command so values like "-6dB" stay
	// positional.
	fs.SetInterspersed(false)

	var (
		configPath   = fs.String("config", "", "path to YAML config file")
		host         = fs.String("host", defaultHost, "OBS WebSocket host")
		port         = fs.Int("port", defaultPort, "OBS WebSocket port")
		timeoutMS    = fs.Int("timeout-ms", defaultReadTimeoutMS, "websocket response timeout in ms")
		passwordFile = fs.String("password-file", "", "path to the WebSocket password file")
		input        = fs.String("input", defaultInputName, "default input name")
		logLevel     = fs.String("log-level", "info", "log level: error, warn, info, debug")
		showVersion  = fs.Bool("version", false, "print version and exit")
	)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if *showVersion {
		printVersion()
		return 0
	}

	cfg, err := loadConfig(*configPath, FlagOverrides{
		Host:         changed(fs, "host", host),
		Port:         changed(fs, "port", port),
		TimeoutMS:    changed(fs, "timeout-ms", timeoutMS),
		PasswordFile: changed(fs, "password-file", passwordFile),
		Input:        changed(fs, "input", input),
		LogLevel:     changed(fs, "log-level", logLevel),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	level, err := parseLogLevel(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	logger := setupLogger(level)

	cmd, err := parseCommand(fs.Args(), cfg.Defaults.Input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n\n", err)
		printUsage()
		return 1
	}

	pwPath := cfg.OBS.PasswordFile
	if pwPath == "" {
		pwPath, err = defaultPasswordFile()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	} else {
		pwPath = ExpandPath(pwPath)
	}
	password, err := resolvePassword(pwPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := connectClient(ctx, cfg.OBS.Host, cfg.OBS.Port, password, logger,
		time.Duration(cfg.OBS.TimeoutMS)*time.Millisecond)
	if err != nil {
		if errors.Is(err, ErrUnreachable) || errors.Is(err, ErrHandshakeFailed) {
			fmt.Fprint(os.Stderr, connectRemediation(pwPath, err))
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		return 1
	}
	defer client.Close()

	ver, err := client.Version()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: get OBS version: %v\n", err)
		return 1
	}
	logger.Info("connected to OBS",
		"obs_version", ver.OBSVersion,
		"websocket_version", ver.OBSWebSocketVersion)

	if err := dispatch(ctx, client, logger, cmd); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s: %v\n", cmd.name, err)
		return 1
	}
	return 0
}

// loadConfig resolves the effective config: defaults, then the config
// file (an explicit --config path must load; the default location is
// optional), then flag overrides, then validation.
func loadConfig(configPath string, overrides FlagOverrides) (Config, error) {
	cfg := DefaultConfig()

	path := configPath
	if path == "" {
		if dir, err := configDir(); err == nil {
			candidate := filepath.Join(dir, "config.yaml")
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}
	if path != "" {
		loaded, err := LoadConfigFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}

	overrides.Apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// changed returns v only if the flag was set on the command line, so
// unset flags never mask config file values.
func changed[T any](fs *flag.FlagSet, name string, v *T) *T {
	if fs.Changed(name) {
		return v
	}
	return nil
}

func connectRemediation(passwordPath string, err error) string {
	return fmt.Sprintf(`Could not connect to OBS over WebSocket.

- Make sure OBS is running, and that 'Enable WebSocket server' is checked
  under Tools -> WebSocket Server Settings. If that menu item does not
  appear, your OBS build does not include WebSocket support.

- If the server requires a password, make sure it is written in
  %s

ERROR: %v
`, passwordPath, err)
}
