package shell

import (
	"errors"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"

	"github.com/domino14/connectfour/game"
)

const luaShellGlobal = "connectfour_shell"

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal(luaShellGlobal)
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// luaCommand wraps a shell command so a script can call it with a string
// of arguments. The command output, or "ERROR: ..." on failure, is
// returned to the script.
func luaCommand(name string) lua.LGFunction {
	return func(L *lua.LState) int {
		line := name
		if L.GetTop() > 0 {
			line += " " + L.ToString(1)
		}
		sc := getShell(L)
		cmd, err := extractFields(line)
		if err != nil {
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		r, err := sc.dispatch(cmd)
		if err != nil {
			log.Err(err).Msg("error-executing-" + name)
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		L.Push(lua.LString(r.message))
		// return number of results pushed to stack.
		return 1
	}
}

// State returns the move string, the player on turn and the winner.
func State(L *lua.LState) int {
	sc := getShell(L)
	L.Push(lua.LString(sc.game.MoveString()))
	L.Push(lua.LNumber(sc.game.PlayerOnTurn()))
	winner := 0
	if sc.game.Playing() == game.PlayStateGameOver {
		winner = int(sc.game.Winner())
	}
	L.Push(lua.LNumber(winner))
	return 3
}

var scriptCommands = []string{
	"new", "load", "play", "aiplay", "undo", "show", "legal", "eval",
	"solve", "set", "autoplay",
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}
	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()

	lsc := L.NewUserData()
	lsc.Value = sc
	L.SetGlobal(luaShellGlobal, lsc)
	for _, name := range scriptCommands {
		L.SetGlobal("c4_"+name, L.NewFunction(luaCommand(name)))
	}
	L.SetGlobal("c4_state", L.NewFunction(State))
	// Scripts can require("json") to encode results.
	luajson.Preload(L)

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return nil, nil
}
