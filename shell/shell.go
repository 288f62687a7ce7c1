// Package shell is the interactive front end: a readline loop that loads
// and plays positions, runs searches and starts automatic games.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/connectfour/agent"
	"github.com/domino14/connectfour/alphabeta"
	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/config"
	"github.com/domino14/connectfour/game"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errQuit              = errors.New("sending quit signal")
)

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

// ShellController holds the state of one shell session.
type ShellController struct {
	l   *readline.Instance
	out io.Writer
	// readLine returns the next input line. It is the readline instance
	// in an interactive session.
	readLine func() (string, error)

	config     *config.Config
	gitVersion string

	game       *game.Game
	lastResult *alphabeta.Result

	ctx    context.Context
	cancel context.CancelFunc
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func NewShellController(cfg *config.Config, gitVersion string) *ShellController {
	prompt := "\033[31mconnectfour>\033[0m "
	sc := newController(cfg, nil)
	sc.gitVersion = gitVersion
	l, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     cfg.GetString(config.ConfigHistoryFile),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stderr()
	sc.readLine = l.Readline
	return sc
}

// newController builds a controller without a terminal. Output goes to w.
func newController(cfg *config.Config, w io.Writer) *ShellController {
	ctx, cancel := context.WithCancel(context.Background())
	g, _ := game.NewGame(board.Player1)
	return &ShellController{
		out:    w,
		config: cfg,
		game:   g,
		ctx:    ctx,
		cancel: cancel,
		readLine: func() (string, error) {
			return "", io.EOF
		},
	}
}

// prompter lets a human agent read its column through the shell's input.
func (sc *ShellController) prompter() agent.Prompter {
	return func(ctx context.Context, prompt string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if sc.l != nil {
			sc.l.SetPrompt(prompt)
			defer sc.l.SetPrompt("\033[31mconnectfour>\033[0m ")
		} else {
			io.WriteString(sc.out, prompt)
		}
		line, err := sc.readLine()
		if errors.Is(err, readline.ErrInterrupt) {
			return "", context.Canceled
		}
		return line, err
	}
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	// Options are -key value pairs. A negative number is an argument.
	for i := 1; i < len(fields); i++ {
		f := fields[i]
		if strings.HasPrefix(f, "-") && len(f) > 1 && !isNumber(f) {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			key := f[1:]
			options[key] = append(options[key], fields[i+1])
			i++
			continue
		}
		args = append(args, f)
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) dispatch(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "new":
		return sc.newGame(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "play", "p":
		return sc.play(cmd)
	case "aiplay":
		return sc.aiplay(cmd)
	case "undo", "u":
		return sc.undo(cmd)
	case "load":
		return sc.load(cmd)
	case "legal":
		return sc.legal(cmd)
	case "eval":
		return sc.eval(cmd)
	case "solve":
		return sc.solve(cmd)
	case "vs":
		return sc.vs(cmd)
	case "set":
		return sc.set(cmd)
	case "config":
		return sc.showConfig(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "script":
		return sc.script(cmd)
	case "help":
		return sc.help(cmd)
	case "version":
		return msg(sc.gitVersion), nil
	case "exit", "bye":
		return nil, errQuit
	}
	log.Debug().Msgf("you said: %v", strconv.Quote(cmd.cmd))
	return nil, fmt.Errorf("command %q not found; try help", cmd.cmd)
}

// handleLine runs one line of input. It only returns an error when the
// session should end.
func (sc *ShellController) handleLine(line string) error {
	cmd, err := extractFields(line)
	if errors.Is(err, errNoData) {
		return nil
	}
	if err != nil {
		sc.showError(err)
		return nil
	}
	resp, err := sc.dispatch(cmd)
	if errors.Is(err, errQuit) {
		return err
	}
	if err != nil {
		sc.showError(err)
		return nil
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
	return nil
}

// Execute runs a single command line, for non-interactive use.
func (sc *ShellController) Execute(line string) {
	if err := sc.handleLine(line); err != nil {
		log.Debug().Err(err).Msg("execute")
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if err := sc.handleLine(line); err != nil {
			sig <- syscall.SIGINT
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops anything still running.
func (sc *ShellController) Cleanup() {
	log.Info().Msg("cleaning up")
	sc.cancel()
}
