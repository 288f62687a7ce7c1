package agent

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/domino14/connectfour/board"
)

type InputErrorKind int

const (
	WrongFormat InputErrorKind = iota
	OutOfRange
	ColumnFull
)

func (k InputErrorKind) String() string {
	switch k {
	case WrongFormat:
		return "wrong-format"
	case OutOfRange:
		return "out-of-range"
	case ColumnFull:
		return "column-full"
	}
	return "unknown"
}

// InputError is returned by ParseColumn when the text does not name a
// playable column.
type InputError struct {
	Kind  InputErrorKind
	Input string
}

func (e *InputError) Error() string {
	switch e.Kind {
	case WrongFormat:
		return fmt.Sprintf("%q is not a column number; enter an integer", e.Input)
	case OutOfRange:
		return fmt.Sprintf("column %s is out of range (0 - %d)", e.Input, board.Columns-1)
	case ColumnFull:
		return fmt.Sprintf("column %s is full", e.Input)
	}
	return "bad input " + e.Input
}

// ParseColumn turns user text into a legal column of pos.
func ParseColumn(pos board.Position, text string) (int, error) {
	text = strings.TrimSpace(text)
	col, err := strconv.Atoi(text)
	if err != nil {
		return 0, &InputError{Kind: WrongFormat, Input: text}
	}
	if col < 0 || col >= board.Columns {
		return 0, &InputError{Kind: OutOfRange, Input: text}
	}
	if !pos.IsLegal(col) {
		return 0, &InputError{Kind: ColumnFull, Input: text}
	}
	return col, nil
}

// Prompter shows a prompt and returns one line of input.
type Prompter func(ctx context.Context, prompt string) (string, error)

// HumanAgent asks a person for a column until they give a legal one.
type HumanAgent struct {
	prompt Prompter
	out    io.Writer
}

// NewHumanAgent returns an agent that reads with p and writes input
// errors to out.
func NewHumanAgent(p Prompter, out io.Writer) *HumanAgent {
	return &HumanAgent{prompt: p, out: out}
}

func (a *HumanAgent) Name() string {
	return "human"
}

func (a *HumanAgent) GenerateMove(ctx context.Context, pos board.Position, pl board.Player) (int, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		text, err := a.prompt(ctx, fmt.Sprintf("%s (%c), column? ", pl, pl.Symbol()))
		if err != nil {
			return 0, err
		}
		col, err := ParseColumn(pos, text)
		if err == nil {
			return col, nil
		}
		fmt.Fprintln(a.out, err.Error())
	}
}
