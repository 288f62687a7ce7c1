package alphabeta

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/equity"
)

var ErrNoLegalColumns = errors.New("no legal columns to search")

// ColumnScore is the value the search gave a root column. With pruning on,
// a column that lost may carry an upper bound rather than its exact value.
type ColumnScore struct {
	Column int `yaml:"column"`
	Score  int `yaml:"score"`
}

// Result is the outcome of a Solve call.
type Result struct {
	Column     int
	Score      int
	RootScores []ColumnScore
	PV         PVLine
	Nodes      uint64
	Elapsed    time.Duration
}

type searchLog struct {
	Player  string        `yaml:"player"`
	Depth   int           `yaml:"depth"`
	Threads int           `yaml:"threads"`
	Pruning bool          `yaml:"pruning"`
	Columns []ColumnScore `yaml:"columns"`
	Chosen  int           `yaml:"chosen"`
	Score   int           `yaml:"score"`
	PV      string        `yaml:"pv"`
	Nodes   uint64        `yaml:"nodes"`
}

// Solver holds the search options. A Solver must not run two searches at
// the same time; give each goroutine its own.
type Solver struct {
	evaluator      equity.Evaluator
	depth          int
	threads        int
	disablePruning bool
	nodes          atomic.Uint64

	logStream io.Writer
}

func NewSolver(e equity.Evaluator) *Solver {
	return &Solver{
		evaluator: e,
		depth:     DefaultDepth,
		threads:   1,
	}
}

func (s *Solver) SetDepth(d int) {
	s.depth = d
}

func (s *Solver) Depth() int {
	return s.depth
}

// SetThreads sets how many root columns are searched at once. Each parallel
// branch gets the full root window, so the chosen column does not change.
func (s *Solver) SetThreads(threads int) {
	s.threads = max(1, threads)
}

func (s *Solver) SetPruningDisabled(d bool) {
	s.disablePruning = d
}

func (s *Solver) SetEvaluator(e equity.Evaluator) {
	s.evaluator = e
}

// SetLogStream makes the solver write a YAML list entry for every search.
func (s *Solver) SetLogStream(l io.Writer) {
	s.logStream = l
}

// Solve picks the best column for pl. It panics if pos has no legal
// columns. If ctx is done before the search finishes, the error is
// returned along with the best column found so far.
func (s *Solver) Solve(ctx context.Context, pos board.Position, pl board.Player) (Result, error) {
	legal := pos.LegalColumns()
	if len(legal) == 0 {
		panic(ErrNoLegalColumns)
	}
	// Canonicalize so that the searching player is always Player1, the
	// maximizer.
	if pl == board.Player2 {
		pos = pos.Swapped()
	}
	log.Debug().Int("depth", s.depth).Int("threads", s.threads).
		Bool("pruning", !s.disablePruning).Str("player", pl.String()).
		Msg("search-start")

	tstart := time.Now()
	s.nodes.Store(0)

	var res Result
	var err error
	if s.threads > 1 && len(legal) > 1 {
		res, err = s.parallelRoot(ctx, pos, legal)
	} else {
		res, err = s.sequentialRoot(ctx, pos, legal)
	}
	res.Nodes = s.nodes.Load()
	res.Elapsed = time.Since(tstart)

	log.Debug().Int("column", res.Column).Int("score", res.Score).
		Uint64("nodes", res.Nodes).
		Float64("time-elapsed-sec", res.Elapsed.Seconds()).
		Msg("solve-returning")

	if s.logStream != nil {
		if lerr := s.writeLog(pl, res); lerr != nil {
			log.Err(lerr).Msg("writing-search-log")
		}
	}
	return res, err
}

func (s *Solver) sequentialRoot(ctx context.Context, pos board.Position, legal []int) (Result, error) {
	res := Result{Column: legal[0], Score: -Infinity}
	α, β := -Infinity, Infinity
	childPV := PVLine{}
	for _, col := range legal {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		child := pos.MustApply(col, board.Player1)
		v, err := s.alphabeta(ctx, child, s.depth-1, α, β, false, &childPV)
		if err != nil {
			return res, err
		}
		res.RootScores = append(res.RootScores, ColumnScore{Column: col, Score: v})
		if v > res.Score {
			res.Column = col
			res.Score = v
			res.PV.Update(col, childPV, v)
		}
		childPV.Clear()
		α = max(α, res.Score)
	}
	return res, nil
}

type rootResult struct {
	score int
	pv    PVLine
}

func (s *Solver) parallelRoot(ctx context.Context, pos board.Position, legal []int) (Result, error) {
	results := make([]rootResult, len(legal))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.threads)
	for i, col := range legal {
		i, col := i, col
		g.Go(func() error {
			child := pos.MustApply(col, board.Player1)
			var pv PVLine
			v, err := s.alphabeta(gctx, child, s.depth-1, -Infinity, Infinity, false, &pv)
			if err != nil {
				return err
			}
			results[i] = rootResult{score: v, pv: pv.copy()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{Column: legal[0], Score: -Infinity}, err
	}

	res := Result{Column: legal[0], Score: -Infinity}
	res.RootScores = lo.Map(legal, func(col int, i int) ColumnScore {
		return ColumnScore{Column: col, Score: results[i].score}
	})
	for i, rs := range res.RootScores {
		if rs.Score > res.Score {
			res.Column = rs.Column
			res.Score = rs.Score
			res.PV.Update(rs.Column, results[i].pv, rs.Score)
		}
	}
	return res, nil
}

func (s *Solver) writeLog(pl board.Player, res Result) error {
	entry := []searchLog{{
		Player:  pl.String(),
		Depth:   s.depth,
		Threads: s.threads,
		Pruning: !s.disablePruning,
		Columns: res.RootScores,
		Chosen:  res.Column,
		Score:   res.Score,
		PV:      res.PV.MoveString(),
		Nodes:   res.Nodes,
	}}
	out, err := yaml.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = s.logStream.Write(out)
	if err != nil {
		return fmt.Errorf("search log: %w", err)
	}
	return nil
}
