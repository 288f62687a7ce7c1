package shell

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/domino14/connectfour/agent"
	"github.com/domino14/connectfour/alphabeta"
	"github.com/domino14/connectfour/automatic"
	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/config"
	"github.com/domino14/connectfour/equity"
	"github.com/domino14/connectfour/game"
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

func msg(message string) *Response {
	return &Response{message: message}
}

func parsePlayer(s string) (board.Player, error) {
	switch strings.ToLower(s) {
	case "1", "p1", "player1", "x":
		return board.Player1, nil
	case "2", "p2", "player2", "o":
		return board.Player2, nil
	}
	return board.NoPlayer, fmt.Errorf("%q is not a player; use 1 or 2", s)
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	first := board.Player1
	if len(cmd.args) > 0 {
		var err error
		if first, err = parsePlayer(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	g, err := game.NewGame(first)
	if err != nil {
		return nil, err
	}
	sc.game = g
	sc.lastResult = nil
	return msg(g.ToDisplayText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	text := sc.game.ToDisplayText()
	if sc.lastResult != nil {
		text += fmt.Sprintf("\nLast search: column %d, score %d, pv %s",
			sc.lastResult.Column, sc.lastResult.Score, sc.lastResult.PV.MoveString())
	}
	return msg(text), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need a column to play")
	}
	for _, a := range cmd.args {
		col, err := agent.ParseColumn(sc.game.Position(), a)
		if err != nil {
			return nil, err
		}
		if err := sc.game.PlayMove(col); err != nil {
			return nil, err
		}
	}
	sc.lastResult = nil
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) aiplay(cmd *shellcmd) (*Response, error) {
	if sc.game.Playing() != game.PlayStatePlaying {
		return nil, errors.New("the game is over")
	}
	name := agent.MinimaxName
	if len(cmd.args) > 0 {
		name = cmd.args[0]
	}
	a, err := agent.FromName(name, sc.config)
	if err != nil {
		return nil, err
	}
	pl := sc.game.PlayerOnTurn()
	col, err := a.GenerateMove(sc.ctx, sc.game.Position(), pl)
	if err != nil {
		return nil, err
	}
	if err := sc.game.PlayMove(col); err != nil {
		return nil, err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%v) plays column %d", a.Name(), pl, col)
	if mm, ok := a.(*agent.MinimaxAgent); ok {
		res := mm.LastResult()
		sc.lastResult = &res
		fmt.Fprintf(&sb, " (score %d)", res.Score)
	}
	sb.WriteString("\n")
	sb.WriteString(sc.game.ToDisplayText())
	return msg(sb.String()), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	n, err := cmd.options.IntDefault("n", 1)
	if err != nil {
		return nil, err
	}
	if len(cmd.args) > 0 {
		if n, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	for i := 0; i < n; i++ {
		if err := sc.game.UnplayLastMove(); err != nil {
			return nil, err
		}
	}
	return msg(sc.game.ToDisplayText()), nil
}

// readBoard collects the lines of a pasted board, ending with the footer
// or with the bottom border when there is no footer.
func (sc *ShellController) readBoard() (string, error) {
	var lines []string
	borders := 0
	for {
		line, err := sc.readLine()
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			if len(lines) > 0 {
				break
			}
			continue
		}
		lines = append(lines, line)
		if strings.HasPrefix(line, "| 0") {
			break
		}
		if strings.HasPrefix(line, "|==") {
			borders++
			if borders == 2 && len(lines) > board.Rows+1 {
				break
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need arguments for load")
	}
	var g *game.Game
	switch cmd.args[0] {
	case "board":
		sc.showMessage("Paste the board, then an empty line:")
		text, err := sc.readBoard()
		if err != nil {
			return nil, err
		}
		pos, err := board.FromDisplayText(text)
		if err != nil {
			return nil, err
		}
		g = game.NewFromPosition(pos)
	case "file":
		if len(cmd.args) < 2 {
			return nil, errors.New("need a filename")
		}
		bts, err := os.ReadFile(cmd.args[1])
		if err != nil {
			return nil, err
		}
		pos, err := board.FromDisplayText(string(bts))
		if err != nil {
			return nil, err
		}
		g = game.NewFromPosition(pos)
	default:
		var err error
		g, err = game.NewFromMoves(strings.Join(cmd.args, ""))
		if err != nil {
			return nil, err
		}
	}
	sc.game = g
	sc.lastResult = nil
	return msg(g.ToDisplayText()), nil
}

func (sc *ShellController) legal(cmd *shellcmd) (*Response, error) {
	cols := sc.game.Position().LegalColumns()
	if sc.game.Playing() != game.PlayStatePlaying || len(cols) == 0 {
		return msg("No legal columns."), nil
	}
	strs := lo.Map(cols, func(c int, _ int) string { return strconv.Itoa(c) })
	return msg("Legal columns: " + strings.Join(strs, " ")), nil
}

func (sc *ShellController) eval(cmd *shellcmd) (*Response, error) {
	w, err := equity.WeightsFromConfig(sc.config)
	if err != nil {
		return nil, err
	}
	e := equity.NewWindowEvaluator(w)
	pos := sc.game.Position()
	var sb strings.Builder
	for _, pl := range []board.Player{board.Player1, board.Player2} {
		fmt.Fprintf(&sb, "%v (%c): heuristic %d, evaluation %d\n",
			pl, pl.Symbol(), e.Heuristic(pos, pl), e.Evaluate(pos, pl))
	}
	fmt.Fprintf(&sb, "State for %v: %v", sc.game.PlayerOnTurn(),
		pos.State(sc.game.PlayerOnTurn()))
	return msg(sb.String()), nil
}

func (sc *ShellController) solve(cmd *shellcmd) (*Response, error) {
	if sc.game.Playing() != game.PlayStatePlaying {
		return nil, errors.New("the game is over")
	}
	depth, err := cmd.options.IntDefault("depth", sc.config.GetInt(config.ConfigSearchDepth))
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", sc.config.GetInt(config.ConfigSearchThreads))
	if err != nil {
		return nil, err
	}
	w, err := equity.WeightsFromConfig(sc.config)
	if err != nil {
		return nil, err
	}
	s := alphabeta.NewSolver(equity.NewWindowEvaluator(w))
	s.SetDepth(depth)
	s.SetThreads(threads)
	s.SetPruningDisabled(cmd.options.Bool("noprune"))
	if logfile := cmd.options.String("log"); logfile != "" {
		f, err := os.Create(logfile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		s.SetLogStream(f)
	}
	pl := sc.game.PlayerOnTurn()
	res, err := s.Solve(sc.ctx, sc.game.Position(), pl)
	if err != nil {
		return nil, err
	}
	sc.lastResult = &res
	return msg(solveResultText(pl, depth, res)), nil
}

func solveResultText(pl board.Player, depth int, res alphabeta.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Search for %v at depth %d\n", pl, depth)
	fmt.Fprintf(&sb, "%-8s%s\n", "Column", "Score")
	for _, cs := range res.RootScores {
		marker := ""
		if cs.Column == res.Column {
			marker = " *"
		}
		fmt.Fprintf(&sb, "%-8d%d%s\n", cs.Column, cs.Score, marker)
	}
	fmt.Fprintf(&sb, "Best column: %d (score %d)\n", res.Column, res.Score)
	sb.WriteString(res.PV.String())
	p := message.NewPrinter(language.English)
	p.Fprintf(&sb, "Nodes: %d, time: %.3fs", res.Nodes, res.Elapsed.Seconds())
	return sb.String()
}

// vs plays an interactive game between the user and a computer agent.
func (sc *ShellController) vs(cmd *shellcmd) (*Response, error) {
	name := agent.MinimaxName
	if len(cmd.args) > 0 {
		name = cmd.args[0]
	}
	comp, err := agent.FromName(name, sc.config)
	if err != nil {
		return nil, err
	}
	human := agent.NewHumanAgent(sc.prompter(), sc.out)
	agents := [2]agent.Agent{human, comp}
	switch cmd.options.String("first") {
	case "", "human":
	case "computer", "agent":
		agents = [2]agent.Agent{comp, human}
	default:
		return nil, errors.New("-first must be human or computer")
	}
	g, err := game.NewGame(board.Player1)
	if err != nil {
		return nil, err
	}
	sc.game = g
	sc.lastResult = nil
	for g.Playing() == game.PlayStatePlaying {
		pl := g.PlayerOnTurn()
		a := agents[pl-1]
		if a == human {
			sc.showMessage(g.ToDisplayText())
		}
		col, err := a.GenerateMove(sc.ctx, g.Position(), pl)
		if err != nil {
			return nil, err
		}
		if err := g.PlayMove(col); err != nil {
			return nil, err
		}
		if a == comp {
			sc.showMessage(fmt.Sprintf("%s plays column %d", comp.Name(), col))
		}
	}
	return msg(g.ToDisplayText()), nil
}

// settable lists the config keys that set can change.
var settable = []string{
	config.ConfigDebug,
	config.ConfigSearchDepth,
	config.ConfigSearchThreads,
	config.ConfigEvalWinWindow,
	config.ConfigEvalThreeWindow,
	config.ConfigEvalTwoWindow,
	config.ConfigEvalOppThreeWindow,
	config.ConfigAutoplayGames,
	config.ConfigAutoplayThreads,
	config.ConfigAutoplayLogfile,
}

func (sc *ShellController) settingsText() string {
	var sb strings.Builder
	for _, k := range settable {
		fmt.Fprintf(&sb, "%-24s%v\n", k, sc.config.Get(k))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(sc.settingsText()), nil
	}
	key := cmd.args[0]
	if !lo.Contains(settable, key) {
		return nil, fmt.Errorf("cannot set %q; settable keys are %v", key, settable)
	}
	if len(cmd.args) == 1 {
		return msg(fmt.Sprintf("%s: %v", key, sc.config.Get(key))), nil
	}
	val := cmd.args[1]
	switch key {
	case config.ConfigAutoplayLogfile:
		sc.config.Set(key, val)
	case config.ConfigDebug:
		b, err := strconv.ParseBool(val)
		if err != nil {
			return nil, err
		}
		sc.config.Set(key, b)
		if b {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	default:
		n, err := strconv.Atoi(val)
		if err != nil {
			return nil, fmt.Errorf("%s needs an integer: %w", key, err)
		}
		if (key == config.ConfigSearchDepth || strings.HasSuffix(key, "threads") ||
			key == config.ConfigAutoplayGames) && n < 1 {
			return nil, fmt.Errorf("%s must be at least 1", key)
		}
		old := sc.config.Get(key)
		sc.config.Set(key, n)
		if strings.HasPrefix(key, "eval-") {
			if _, err := equity.WeightsFromConfig(sc.config); err != nil {
				sc.config.Set(key, old)
				return nil, err
			}
		}
	}
	log.Debug().Str("key", key).Str("value", val).Msg("set-config")
	return msg(fmt.Sprintf("%s set to %v", key, sc.config.Get(key))), nil
}

func (sc *ShellController) showConfig(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 && cmd.args[0] == "write" {
		if err := sc.config.Write(); err != nil {
			return nil, err
		}
		return msg("Wrote " + sc.config.GetString(config.ConfigConfigFile)), nil
	}
	bts, err := yaml.Marshal(sc.config.SanitizedSettings())
	if err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(string(bts), "\n")), nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	p1 := cmd.options.String("p1")
	if p1 == "" {
		p1 = agent.MinimaxName
	}
	p2 := cmd.options.String("p2")
	if p2 == "" {
		p2 = agent.RandomName
	}
	opts := automatic.OptionsFromConfig(sc.config, p1, p2)
	var err error
	if opts.NumGames, err = cmd.options.IntDefault("games", opts.NumGames); err != nil {
		return nil, err
	}
	if opts.Threads, err = cmd.options.IntDefault("threads", opts.Threads); err != nil {
		return nil, err
	}
	opts.RandomFirst = cmd.options.Bool("random-first")
	logfile := cmd.options.String("logfile")
	if logfile == "" {
		logfile = sc.config.GetString(config.ConfigAutoplayLogfile)
	}
	if logfile != "" {
		f, err := os.Create(logfile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		opts.LogWriter = f
	}
	sc.showMessage(fmt.Sprintf("Playing %d games of %s vs %s on %d threads...",
		opts.NumGames, p1, p2, opts.Threads))
	summary, err := automatic.StartCompVComp(sc.ctx, sc.config, opts)
	if summary == nil {
		return nil, err
	}
	if err != nil {
		sc.showError(err)
	}
	return msg(summary.String()), nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(usage()), nil
	}
	return msg(usageTopic(cmd.args[0])), nil
}
