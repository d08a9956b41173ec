package main

import (
	"context"
	"fmt"
	"log/slog"
)

// command is one parsed CLI invocation.
type command struct {
	name     string
	input    string
	volume   VolumeSpec
	scene    string
	duration float64
}

// parseCommand binds positional arguments to a command. For commands
// with an optional input name, one argument is the value and two are
// input then value; fade-input accepts a third argument as the fade
// duration in seconds.
func parseCommand(args []string, defaultInput string) (command, error) {
	if len(args) == 0 {
		return command{}, fmt.Errorf("no command given")
	}
	cmd := command{name: args[0], input: defaultInput}
	rest := args[1:]

	switch cmd.name {
	case "toggle-stream", "toggle-record":
		if len(rest) != 0 {
			return command{}, fmt.Errorf("%s takes no arguments", cmd.name)
		}

	case "toggle-mute":
		switch len(rest) {
		case 0:
		case 1:
			cmd.input = rest[0]
		default:
			return command{}, fmt.Errorf("toggle-mute takes at most an input name")
		}

	case "set-scene":
		if len(rest) != 1 {
			return command{}, fmt.Errorf("set-scene requires exactly one scene name")
		}
		cmd.scene = rest[0]

	case "set-volume":
		var volRaw string
		switch len(rest) {
		case 1:
			volRaw = rest[0]
		case 2:
			cmd.input, volRaw = rest[0], rest[1]
		default:
			return command{}, fmt.Errorf("set-volume requires a volume, optionally preceded by an input name")
		}
		vol, err := parseVolumeSpec(volRaw)
		if err != nil {
			return command{}, err
		}
		cmd.volume = vol

	case "fade-input":
		var volRaw, durRaw string
		cmd.duration = defaultFadeDurationS
		switch len(rest) {
		case 1:
			volRaw = rest[0]
		case 2:
			cmd.input, volRaw = rest[0], rest[1]
		case 3:
			cmd.input, volRaw, durRaw = rest[0], rest[1], rest[2]
		default:
			return command{}, fmt.Errorf("fade-input requires a volume: fade-input [input] <volume> [duration]")
		}
		vol, err := parseVolumeSpec(volRaw)
		if err != nil {
			return command{}, err
		}
		cmd.volume = vol
		if durRaw != "" {
			d, err := parseFadeDuration(durRaw)
			if err != nil {
				return command{}, err
			}
			cmd.duration = d
		}

	default:
		return command{}, fmt.Errorf("unknown command: %s", cmd.name)
	}

	return cmd, nil
}

// dispatch routes a parsed command to exactly one client call, or to
// the fader for fade-input.
func dispatch(ctx context.Context, client obsClient, logger *slog.Logger, cmd command) error {
	switch cmd.name {
	case "toggle-stream":
		active, err := client.ToggleStream()
		if err != nil {
			return err
		}
		logger.Info("streaming toggled", "active", active)
		return nil

	case "toggle-record":
		active, err := client.ToggleRecord()
		if err != nil {
			return err
		}
		logger.Info("recording toggled", "active", active)
		return nil

	case "toggle-mute":
		return client.ToggleInputMute(cmd.input)

	case "set-scene":
		return client.SetCurrentProgramScene(cmd.scene)

	case "set-volume":
		return client.SetInputVolume(cmd.input, cmd.volume)

	case "fade-input":
		return newFader(client, logger).Fade(ctx, cmd.input, cmd.volume, cmd.duration)
	}

	return fmt.Errorf("unknown command: %s", cmd.name)
}
