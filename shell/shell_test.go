package shell

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/config"
	"github.com/domino14/connectfour/game"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func newTestShell() (*ShellController, *bytes.Buffer) {
	var buf bytes.Buffer
	return newController(config.DefaultConfig(), &buf), &buf
}

// feed makes the controller read the given lines, then EOF.
func feed(sc *ShellController, lines ...string) {
	sc.readLine = func() (string, error) {
		if len(lines) == 0 {
			return "", io.EOF
		}
		l := lines[0]
		lines = lines[1:]
		return l, nil
	}
}

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"   ", nil, errNoData},
		{"autoplay -logfile /path/to/log.txt",
			&shellcmd{"autoplay", nil, CmdOptions{"logfile": {"/path/to/log.txt"}}},
			nil},
		{"play 3",
			&shellcmd{"play", []string{"3"}, CmdOptions{}},
			nil},
		{"solve -depth 6 -threads 4 ",
			&shellcmd{"solve", nil, CmdOptions{"depth": {"6"}, "threads": {"4"}}},
			nil},
		{"vs minimax:5 -first computer",
			&shellcmd{"vs", []string{"minimax:5"}, CmdOptions{"first": {"computer"}}},
			nil},
		{"play -1",
			&shellcmd{"play", []string{"-1"}, CmdOptions{}},
			nil},
		{`script "my file.lua"`,
			&shellcmd{"script", []string{"my file.lua"}, CmdOptions{}},
			nil},
		{"solve -depth",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func TestCmdOptions(t *testing.T) {
	is := is.New(t)
	opts := CmdOptions{"depth": {"5"}, "noprune": {"TRUE"}, "bad": {"x"}}
	d, err := opts.Int("depth")
	is.NoErr(err)
	is.Equal(d, 5)
	_, err = opts.Int("threads")
	is.True(err != nil)
	d, err = opts.IntDefault("threads", 3)
	is.NoErr(err)
	is.Equal(d, 3)
	_, err = opts.IntDefault("bad", 3)
	is.True(err != nil)
	is.True(opts.Bool("noprune"))
	is.True(!opts.Bool("missing"))
	is.Equal(opts.String("missing"), "")
}

func TestLoadAndPlay(t *testing.T) {
	is := is.New(t)
	sc, buf := newTestShell()
	is.NoErr(sc.handleLine("load 3342"))
	is.Equal(sc.game.MoveString(), "3342")
	is.NoErr(sc.handleLine("play 3 2"))
	is.Equal(sc.game.MoveString(), "334232")
	is.True(strings.Contains(buf.String(), "Moves: 334232"))

	is.NoErr(sc.handleLine("undo 2"))
	is.Equal(sc.game.MoveString(), "3342")
	is.NoErr(sc.handleLine("u"))
	is.Equal(sc.game.MoveString(), "334")
}

func TestPlayBadInput(t *testing.T) {
	sc, buf := newTestShell()
	assert.NoError(t, sc.handleLine("load 000000"))

	for _, tc := range []struct {
		line string
		want string
	}{
		{"play 9", "out of range"},
		{"play x", "not a column number"},
		{"play 0", "is full"},
		{"play", "need a column"},
		{"load 01a", "bad character"},
		{"frobnicate", "not found"},
	} {
		buf.Reset()
		assert.NoError(t, sc.handleLine(tc.line))
		assert.Contains(t, buf.String(), "Error: ")
		assert.Contains(t, buf.String(), tc.want, tc.line)
	}
	assert.Equal(t, "000000", sc.game.MoveString())
}

func TestAiplayTakesWin(t *testing.T) {
	is := is.New(t)
	sc, buf := newTestShell()
	is.NoErr(sc.handleLine("load 606061"))
	is.NoErr(sc.handleLine("aiplay minimax:2"))
	is.Equal(sc.game.MoveString(), "6060616")
	is.Equal(sc.game.Playing(), game.PlayStateGameOver)
	is.Equal(sc.game.Winner(), board.Player1)
	is.True(strings.Contains(buf.String(), "plays column 6"))
	is.True(sc.lastResult != nil)

	buf.Reset()
	is.NoErr(sc.handleLine("aiplay"))
	is.True(strings.Contains(buf.String(), "game is over"))
	buf.Reset()
	is.NoErr(sc.handleLine("play 1"))
	is.True(strings.Contains(buf.String(), "game is over"))
}

func TestSolve(t *testing.T) {
	is := is.New(t)
	sc, buf := newTestShell()
	is.NoErr(sc.handleLine("load 60606"))
	logfile := filepath.Join(t.TempDir(), "search.yaml")
	is.NoErr(sc.handleLine("solve -depth 3 -threads 2 -log " + logfile))
	out := buf.String()
	// Player2 must block column 6.
	is.True(strings.Contains(out, "Search for player2 at depth 3"))
	is.True(strings.Contains(out, "Best column: 6"))
	is.True(strings.Contains(out, "Nodes: "))
	bts, err := os.ReadFile(logfile)
	is.NoErr(err)
	is.True(strings.Contains(string(bts), "chosen: 6"))
	// Solving doesn't play the move.
	is.Equal(sc.game.MoveString(), "60606")

	buf.Reset()
	is.NoErr(sc.handleLine("show"))
	is.True(strings.Contains(buf.String(), "Last search: column 6"))
}

func TestLegalAndEval(t *testing.T) {
	is := is.New(t)
	sc, buf := newTestShell()
	is.NoErr(sc.handleLine("load 000000"))
	is.NoErr(sc.handleLine("legal"))
	is.True(strings.Contains(buf.String(), "Legal columns: 1 2 3 4 5 6"))

	buf.Reset()
	is.NoErr(sc.handleLine("load 0102"))
	is.NoErr(sc.handleLine("eval"))
	is.True(strings.Contains(buf.String(), "player1 (X): heuristic 5"))
}

func TestNewGame(t *testing.T) {
	is := is.New(t)
	sc, buf := newTestShell()
	is.NoErr(sc.handleLine("new 2"))
	is.Equal(sc.game.PlayerOnTurn(), board.Player2)
	is.NoErr(sc.handleLine("play 3"))
	is.Equal(sc.game.Position().At(0, 3), board.Player2)
	buf.Reset()
	is.NoErr(sc.handleLine("new 3"))
	is.True(strings.Contains(buf.String(), "not a player"))
}

func TestLoadBoard(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestShell()
	pos, err := board.FromMoves("3342")
	is.NoErr(err)
	lines := strings.Split(pos.ToDisplayText(), "\n")
	feed(sc, lines...)
	is.NoErr(sc.handleLine("load board"))
	is.Equal(sc.game.Position(), pos)
	is.Equal(sc.game.PlayerOnTurn(), board.Player1)

	// Without the footer the bottom border ends the board.
	feed(sc, lines[:len(lines)-2]...)
	is.NoErr(sc.handleLine("load board"))
	is.Equal(sc.game.Position(), pos)

	f := filepath.Join(t.TempDir(), "board.txt")
	is.NoErr(os.WriteFile(f, []byte(pos.ToDisplayText()), 0644))
	is.NoErr(sc.handleLine("load file " + f))
	is.Equal(sc.game.Position(), pos)
}

func TestSet(t *testing.T) {
	is := is.New(t)
	sc, buf := newTestShell()
	is.NoErr(sc.handleLine("set search-depth 6"))
	is.Equal(sc.config.GetInt(config.ConfigSearchDepth), 6)
	is.NoErr(sc.handleLine("set debug true"))
	is.True(sc.config.GetBool(config.ConfigDebug))
	is.Equal(zerolog.GlobalLevel(), zerolog.DebugLevel)
	is.NoErr(sc.handleLine("set debug false"))
	is.Equal(zerolog.GlobalLevel(), zerolog.InfoLevel)

	buf.Reset()
	is.NoErr(sc.handleLine("set search-depth 0"))
	is.True(strings.Contains(buf.String(), "at least 1"))
	is.Equal(sc.config.GetInt(config.ConfigSearchDepth), 6)

	buf.Reset()
	is.NoErr(sc.handleLine("set history-file foo"))
	is.True(strings.Contains(buf.String(), "cannot set"))

	buf.Reset()
	is.NoErr(sc.handleLine("set"))
	is.True(strings.Contains(buf.String(), "eval-opp-three-window"))

	buf.Reset()
	is.NoErr(sc.handleLine("config"))
	is.True(strings.Contains(buf.String(), "search-depth: 6"))
}

func TestSetRejectsWeightsAboveWin(t *testing.T) {
	is := is.New(t)
	sc, buf := newTestShell()
	is.NoErr(sc.handleLine("set eval-three-window 200000"))
	is.True(strings.Contains(buf.String(), "outscore a win"))
	is.Equal(sc.config.GetInt(config.ConfigEvalThreeWindow), 20)

	buf.Reset()
	is.NoErr(sc.handleLine("set eval-three-window 30"))
	is.Equal(sc.config.GetInt(config.ConfigEvalThreeWindow), 30)

	// Weights that slipped in some other way are caught at use.
	sc.config.Set(config.ConfigEvalWinWindow, 500000)
	buf.Reset()
	is.NoErr(sc.handleLine("solve -depth 1"))
	is.True(strings.Contains(buf.String(), "outscore a win"))
}

func TestVsHuman(t *testing.T) {
	is := is.New(t)
	sc, buf := newTestShell()
	first := true
	sc.readLine = func() (string, error) {
		if first {
			first = false
			return "seven", nil
		}
		return strconv.Itoa(sc.game.Position().LegalColumns()[0]), nil
	}
	is.NoErr(sc.handleLine("vs random"))
	is.Equal(sc.game.Playing(), game.PlayStateGameOver)
	is.True(strings.Contains(buf.String(), `"seven" is not a column number`))
	is.True(strings.Contains(buf.String(), "random plays column"))

	// Input ends: the game stops with an error.
	buf.Reset()
	feed(sc)
	is.NoErr(sc.handleLine("vs minimax:1 -first human"))
	is.True(strings.Contains(buf.String(), "EOF"))
	is.Equal(sc.game.Turn(), 0)
}

func TestAutoplay(t *testing.T) {
	is := is.New(t)
	sc, buf := newTestShell()
	logfile := filepath.Join(t.TempDir(), "games.csv")
	is.NoErr(sc.handleLine("autoplay -games 6 -threads 2 -p1 random -p2 minimax:1 -logfile " + logfile))
	is.True(strings.Contains(buf.String(), "Games played: 6"))
	bts, err := os.ReadFile(logfile)
	is.NoErr(err)
	is.Equal(len(strings.Split(strings.TrimSpace(string(bts)), "\n")), 7)

	buf.Reset()
	is.NoErr(sc.handleLine("autoplay -games 2 -p1 nobody"))
	is.True(strings.Contains(buf.String(), "unknown agent"))
}

func TestScript(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestShell()
	script := `
c4_load("3342")
c4_play("3")
local moves, onturn, winner = c4_state()
if moves ~= "33423" then error("bad moves " .. moves) end
if onturn ~= 2 then error("bad player on turn") end
local s = c4_solve("-depth 2")
if not string.find(s, "Best column") then error("no solve output: " .. s) end
local e = c4_play("9")
if not string.find(e, "^ERROR") then error("expected an error") end
`
	f := filepath.Join(t.TempDir(), "test.lua")
	is.NoErr(os.WriteFile(f, []byte(script), 0644))
	_, err := sc.dispatch(&shellcmd{cmd: "script", args: []string{f}})
	is.NoErr(err)
	is.Equal(sc.game.MoveString(), "33423")

	is.NoErr(os.WriteFile(f, []byte(`error("boom")`), 0644))
	_, err = sc.dispatch(&shellcmd{cmd: "script", args: []string{f}})
	is.True(err != nil)
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc, buf := newTestShell()
	is.NoErr(sc.handleLine("help"))
	is.True(strings.Contains(buf.String(), "Usage:"))
	buf.Reset()
	is.NoErr(sc.handleLine("help solve"))
	is.True(strings.Contains(buf.String(), "-noprune"))
	buf.Reset()
	is.NoErr(sc.handleLine("help ../shell"))
	is.True(strings.Contains(buf.String(), "There is no help text"))
}

func TestExit(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestShell()
	is.Equal(sc.handleLine("exit"), errQuit)
	is.NoErr(sc.handleLine(""))
}

func TestCompleter(t *testing.T) {
	sc, _ := newTestShell()
	c := NewShellCompleter(sc)
	complete := func(text string) []string {
		matches, _ := c.Do([]rune(text), len(text))
		var out []string
		for _, m := range matches {
			out = append(out, string(m))
		}
		return out
	}
	assert.Equal(t, []string{"lve"}, complete("so"))
	assert.Equal(t, []string{"epth"}, complete("solve -d"))
	assert.Equal(t, []string{"true", "false"}, complete("solve -noprune "))
	assert.Equal(t, []string{"inimax"}, complete("autoplay -p1 m"))
	assert.Equal(t, []string{"0", "1", "2", "3", "4", "5", "6"}, complete("play "))
	assert.Nil(t, complete("frobnicate "))
}
