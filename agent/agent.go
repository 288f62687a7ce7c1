// Package agent contains the move sources that can play a game: the
// minimax searcher, a random mover and a human at a prompt.
package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/domino14/connectfour/alphabeta"
	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/config"
	"github.com/domino14/connectfour/equity"
)

// Agent picks a column for pl to play in pos.
type Agent interface {
	GenerateMove(ctx context.Context, pos board.Position, pl board.Player) (int, error)
	Name() string
}

const (
	MinimaxName = "minimax"
	RandomName  = "random"
)

// Names lists the agents that FromName can build.
var Names = []string{MinimaxName, RandomName}

// FromName builds a computer agent. A minimax agent takes its depth,
// threads and evaluation weights from cfg; "minimax:6" overrides the
// depth.
func FromName(name string, cfg *config.Config) (Agent, error) {
	base, arg, hasArg := strings.Cut(name, ":")
	switch base {
	case MinimaxName:
		depth := cfg.GetInt(config.ConfigSearchDepth)
		if hasArg {
			d, err := strconv.Atoi(arg)
			if err != nil || d < 1 {
				return nil, fmt.Errorf("bad depth in agent name %q", name)
			}
			depth = d
		}
		w, err := equity.WeightsFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		s := alphabeta.NewSolver(equity.NewWindowEvaluator(w))
		s.SetDepth(depth)
		s.SetThreads(cfg.GetInt(config.ConfigSearchThreads))
		return NewMinimaxAgent(s), nil
	case RandomName:
		if hasArg {
			return nil, fmt.Errorf("agent %q takes no argument", base)
		}
		return &RandomAgent{}, nil
	}
	return nil, fmt.Errorf("unknown agent %q; choose from %v", name, Names)
}
