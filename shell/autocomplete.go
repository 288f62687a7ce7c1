package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"

	"github.com/domino14/connectfour/agent"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"solve": {
		Options: []string{"-depth", "-threads", "-noprune", "-log"},
	},
	"autoplay": {
		Options: []string{"-games", "-threads", "-p1", "-p2", "-random-first", "-logfile"},
	},
	"aiplay": {
		Args: agent.Names,
	},
	"vs": {
		Options: []string{"-first"},
		Args:    agent.Names,
	},
	"new": {
		Args: []string{"1", "2"},
	},
	"load": {
		Args: []string{"board", "file"},
	},
	"set": {
		Args: settable,
	},
	"config": {
		Args: []string{"write"},
	},
	"help": {
		Args: []string{"solve", "autoplay", "agents", "set", "load", "script", "vs"},
	},
}

var commandNames = []string{
	"new", "show", "play", "aiplay", "undo", "load", "legal", "eval",
	"solve", "vs", "set", "config", "autoplay", "script", "version",
	"help", "exit",
}

var boolValues = []string{"true", "false"}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		if strings.HasPrefix(lastCompleteField, "-") {
			switch strings.TrimPrefix(lastCompleteField, "-") {
			case "noprune", "random-first":
				completions = boolValues
			case "p1", "p2":
				completions = agent.Names
			case "first":
				completions = []string{"human", "computer"}
			}
		}
		// Legal columns for play.
		if completions == nil && (cmdName == "play" || cmdName == "p") && c.sc.game != nil {
			completions = lo.Map(c.sc.game.Position().LegalColumns(), func(col int, _ int) string {
				return string(rune('0' + col))
			})
		}
		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
