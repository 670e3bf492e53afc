package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nhle/worklog-dashboard/internal/daterange"
)

// Kind identifies a palette command.
type Kind int

const (
	Refresh Kind = iota
	SetRange
	FilterMember
	ClearFilter
	Connect
	Quit
)

// Command is a parsed palette command.
type Command struct {
	Kind Kind

	// Preset is set for "range <preset>".
	Preset daterange.PresetID
	// Start and End are set for "range <start> <end>".
	Start, End string
	// Member is the name or account ID for "member".
	Member string
}

// ErrEmpty is returned for blank input.
var ErrEmpty = errors.New("empty command")

// Parse reads one palette line.
func Parse(input string) (Command, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return Command{}, ErrEmpty
	}
	args := fields[1:]

	switch strings.ToLower(fields[0]) {
	case "refresh", "reload", "r":
		return Command{Kind: Refresh}, nil

	case "range", "d":
		switch len(args) {
		case 1:
			p, ok := daterange.LookupPreset(args[0])
			if !ok {
				return Command{}, fmt.Errorf("unknown preset %q", args[0])
			}
			return Command{Kind: SetRange, Preset: p.ID}, nil
		case 2:
			if _, err := daterange.Parse(args[0], args[1]); err != nil {
				return Command{}, err
			}
			return Command{Kind: SetRange, Start: args[0], End: args[1]}, nil
		}
		return Command{}, errors.New("usage: range <preset> | range <start> <end>")

	case "member", "m":
		if len(args) == 0 {
			return Command{}, errors.New("usage: member <name or account id>")
		}
		return Command{Kind: FilterMember, Member: strings.Join(args, " ")}, nil

	case "clear":
		return Command{Kind: ClearFilter}, nil

	case "connect", "login":
		return Command{Kind: Connect}, nil

	case "quit", "q":
		return Command{Kind: Quit}, nil
	}

	return Command{}, fmt.Errorf("unknown command %q", fields[0])
}
