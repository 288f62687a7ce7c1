package config

import (
	"errors"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug              = "debug"
	ConfigCPUProfile         = "cpu-profile"
	ConfigConfigFile         = "config-file"
	ConfigHistoryFile        = "history-file"
	ConfigSearchDepth        = "search-depth"
	ConfigSearchThreads      = "search-threads"
	ConfigEvalWinWindow      = "eval-win-window"
	ConfigEvalThreeWindow    = "eval-three-window"
	ConfigEvalTwoWindow      = "eval-two-window"
	ConfigEvalOppThreeWindow = "eval-opp-three-window"
	ConfigAutoplayGames      = "autoplay-games"
	ConfigAutoplayThreads    = "autoplay-threads"
	ConfigAutoplayLogfile    = "autoplay-logfile"
)

const envPrefix = "CONNECTFOUR"

// Config wraps a viper instance. Settings come from (in increasing order of
// precedence) defaults, an optional YAML config file, the environment, and
// command-line flags.
type Config struct {
	*viper.Viper
	// args are the command-line arguments left after the flags.
	args []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigCPUProfile, "")
	v.SetDefault(ConfigConfigFile, "")
	v.SetDefault(ConfigHistoryFile, "/tmp/connectfour_readline.tmp")
	v.SetDefault(ConfigSearchDepth, 4)
	v.SetDefault(ConfigSearchThreads, 1)
	v.SetDefault(ConfigEvalWinWindow, 200)
	v.SetDefault(ConfigEvalThreeWindow, 20)
	v.SetDefault(ConfigEvalTwoWindow, 5)
	v.SetDefault(ConfigEvalOppThreeWindow, -1000)
	v.SetDefault(ConfigAutoplayGames, 100)
	v.SetDefault(ConfigAutoplayThreads, runtime.NumCPU())
	v.SetDefault(ConfigAutoplayLogfile, "")
}

// DefaultConfig returns a config holding only the default values. It does
// not look at flags or the environment.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	return &Config{Viper: v}
}

// Load populates the config from args, the environment and, if
// --config-file is given, a YAML file.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	setDefaults(c.Viper)

	fs := pflag.NewFlagSet("connectfour", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigCPUProfile, "", "file to write a CPU profile to")
	fs.String(ConfigConfigFile, "", "YAML config file")
	fs.String(ConfigHistoryFile, "/tmp/connectfour_readline.tmp", "readline history file")
	fs.Int(ConfigSearchDepth, 4, "minimax search depth in plies")
	fs.Int(ConfigSearchThreads, 1, "threads used for the root of the search")
	fs.Int(ConfigEvalWinWindow, 200, "value of a window holding four own pieces")
	fs.Int(ConfigEvalThreeWindow, 20, "value of a window with three own pieces and an empty cell")
	fs.Int(ConfigEvalTwoWindow, 5, "value of a window with two own pieces and two empty cells")
	fs.Int(ConfigEvalOppThreeWindow, -1000, "value of a window with three opponent pieces and an empty cell")
	fs.Int(ConfigAutoplayGames, 100, "number of games for autoplay")
	fs.Int(ConfigAutoplayThreads, runtime.NumCPU(), "number of autoplay workers")
	fs.String(ConfigAutoplayLogfile, "", "CSV file to log autoplay games to")
	// Flags stop at the first non-flag argument; the rest is a shell
	// command line with its own -options.
	fs.SetInterspersed(false)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix(envPrefix)
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if cf := c.GetString(ConfigConfigFile); cf != "" {
		c.SetConfigFile(cf)
		c.SetConfigType("yaml")
		if err := c.ReadInConfig(); err != nil {
			return err
		}
	}
	return nil
}

// Args returns the arguments that followed the flags in the last Load.
func (c *Config) Args() []string {
	return c.args
}

// Write saves the current settings to the config file, if one was given.
func (c *Config) Write() error {
	cf := c.GetString(ConfigConfigFile)
	if cf == "" {
		return errors.New("no config file given; use --config-file")
	}
	return c.WriteConfigAs(cf)
}

// SanitizedSettings returns every setting, suitable for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
