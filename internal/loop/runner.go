package loop

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrInvalidCommand indicates a set-target command with non-numeric
// input. Recovered locally: the command is discarded and the loop
// keeps its previous target.
var ErrInvalidCommand = errors.New("loop: command input is not a number")

// CommandKind discriminates runtime commands.
type CommandKind uint8

const (
	CmdSetTarget CommandKind = iota
	CmdQuit
)

// Command is a runtime instruction applied at a step boundary.
type Command struct {
	Kind   CommandKind
	Target float64
}

// SetTarget builds a target-replacement command.
func SetTarget(target float64) Command {
	return Command{Kind: CmdSetTarget, Target: target}
}

// Quit builds a clean-termination command.
func Quit() Command {
	return Command{Kind: CmdQuit}
}

// ParseTarget converts user input into a set-target command.
func ParseTarget(input string) (Command, error) {
	v, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return Command{}, fmt.Errorf("%w: %q", ErrInvalidCommand, input)
	}
	return SetTarget(v), nil
}

// Run drives the loop until canceled. Steps are paced by interval (the
// plant's skew rate); an interval <= 0 runs unpaced. Commands are
// applied only between steps, so a target change or quit never
// interrupts an in-flight step. onStep may be nil; returning false
// stops the run after the current step.
func (l *Loop) Run(ctx context.Context, interval time.Duration, commands <-chan Command, onStep func(Telemetry) bool) error {
	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		tel := l.Step()
		if onStep != nil && !onStep(tel) {
			return nil
		}

		if tick == nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case cmd, ok := <-commands:
				if ok {
					if cmd.Kind == CmdQuit {
						return nil
					}
					l.apply(cmd)
				} else {
					commands = nil
				}
			default:
			}
			continue
		}

		for waiting := true; waiting; {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case cmd, ok := <-commands:
				if !ok {
					commands = nil
					continue
				}
				if cmd.Kind == CmdQuit {
					return nil
				}
				l.apply(cmd)
			case <-tick:
				waiting = false
			}
		}
	}
}

func (l *Loop) apply(cmd Command) {
	if cmd.Kind == CmdSetTarget {
		l.SetTarget(cmd.Target)
	}
}
