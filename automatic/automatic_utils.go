package automatic

// Computer vs computer games, run on a pool of workers.

import (
	"context"
	"errors"
	"expvar"
	"io"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/domino14/connectfour/agent"
	"github.com/domino14/connectfour/config"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

var errAlreadyPlaying = errors.New("games are already being played, please wait till complete")

// running is held for the whole of a StartCompVComp call.
var running atomic.Bool

// Options configures a batch of automatic games.
type Options struct {
	NumGames int
	Threads  int
	// Players are agent names, see agent.FromName.
	Players [2]string
	// RandomFirst picks the first mover at random for every game.
	// Otherwise the agents alternate, starting with Players[0].
	RandomFirst bool
	// LogWriter receives one CSV row per game. It may be nil.
	LogWriter io.Writer
}

// OptionsFromConfig fills in the game count and thread count from cfg.
func OptionsFromConfig(cfg *config.Config, p1, p2 string) Options {
	return Options{
		NumGames: cfg.GetInt(config.ConfigAutoplayGames),
		Threads:  cfg.GetInt(config.ConfigAutoplayThreads),
		Players:  [2]string{p1, p2},
	}
}

// StartCompVComp plays opts.NumGames games and blocks until they are done
// or ctx is canceled. On cancellation the summary covers the games that
// finished.
func StartCompVComp(ctx context.Context, cfg *config.Config, opts Options) (*Summary, error) {
	if !running.CompareAndSwap(false, true) {
		return nil, errAlreadyPlaying
	}
	defer running.Store(false)
	if opts.NumGames < 1 {
		return nil, errors.New("need at least one game")
	}
	threads := max(1, min(opts.Threads, opts.NumGames))
	// Build one set of agents up front so bad names fail before any
	// goroutines start.
	for _, name := range opts.Players {
		if _, err := agent.FromName(name, cfg); err != nil {
			return nil, err
		}
	}
	log.Debug().Int("games", opts.NumGames).Int("threads", threads).
		Strs("players", opts.Players[:]).Msg("starting-autoplay")

	CVCCounter.Set(0)
	jobs := make(chan int, 100)
	results := make(chan GameResult, 100)
	summary := NewSummary(opts.Players)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < opts.NumGames; i++ {
			select {
			case jobs <- i:
			case <-gctx.Done():
				log.Info().Msg("got stop signal, exiting soon...")
				return nil
			}
		}
		return nil
	})

	workers, wctx := errgroup.WithContext(gctx)
	for t := 0; t < threads; t++ {
		workers.Go(func() error {
			var agents [2]agent.Agent
			for i, name := range opts.Players {
				a, err := agent.FromName(name, cfg)
				if err != nil {
					return err
				}
				agents[i] = a
			}
			r := NewGameRunner(agents)
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			for id := range jobs {
				first := id % 2
				if opts.RandomFirst {
					first = frand.Intn(2)
				}
				res, err := r.PlayGame(wctx, id, first)
				if err != nil {
					return err
				}
				results <- res
				CVCCounter.Add(1)
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(results)
		return workers.Wait()
	})

	// Single writer for the log and the tally.
	var writeErr error
	if opts.LogWriter != nil {
		_, writeErr = io.WriteString(opts.LogWriter, csvHeader)
	}
	for res := range results {
		summary.Add(res)
		if opts.LogWriter != nil && writeErr == nil {
			_, writeErr = io.WriteString(opts.LogWriter, res.csvRow(opts.Players))
		}
	}
	err := g.Wait()
	log.Info().Int("games", summary.Games).Msg("autoplay-finished")
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return summary, err
	}
	if err != nil {
		return nil, err
	}
	return summary, writeErr
}
