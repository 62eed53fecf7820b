package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/bft-labs/centronic"
	"github.com/bft-labs/centronic/internal/cliconfig"
	"github.com/bft-labs/centronic/pkg/log"
)

const helpDescription = `
Control Becker Centronic roller shutters through a USB transmitter stick.

The stick is either a local serial device (any device path) or a serial
bridge reachable over TCP (host[:port], port 5000 by default). Rolling
counters are kept in <store-dir>/units.json.

Channels are "<unit>:<channel>" or "<channel>" (unit 1). Channels 1-7
address one receiver, 15 addresses all channels of the unit and unit 0
addresses every known unit.
`

var exampleUsage = strings.TrimSpace(`
  centronic --device /dev/ttyACM0 --init-dummy pair 1
  centronic up 1:2
  centronic send 1:15 DOWN:12
  centronic move 2 down 5s
  centronic list --output yaml
  centronic watch --spool-dir /var/spool/centronic
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries configuration and resources shared by the subcommands.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string

	zlog   zerolog.Logger
	logger log.Logger
	closer io.Closer
}

func main() {
	c := &cli{
		cfg:  cliconfig.DefaultConfig(),
		zlog: consoleLogger(os.Stderr, zerolog.InfoLevel),
	}

	root := c.rootCommand()
	err := root.ExecuteContext(context.Background())
	if c.closer != nil {
		_ = c.closer.Close()
	}
	if err != nil {
		c.zlog.Error().Err(err).Msg("centronic")
		os.Exit(1)
	}
}

// hideFlag hides an expert flag from the help output.
func hideFlag(f *pflag.FlagSet, name string, zlog zerolog.Logger) {
	if err := f.MarkHidden(name); err != nil {
		zlog.Warn().Err(err).Str("flag", name).Msg("failed to hide flag")
	}
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "centronic",
		Short:         "Control Becker Centronic roller shutters",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.centronic/config.toml)")
	f.StringVar(&c.cfg.Device, "device", c.cfg.Device, "serial device path or host[:port] of a serial bridge")
	f.StringVar(&c.cfg.StoreDir, "store-dir", c.cfg.StoreDir, "directory holding units.json")
	f.BoolVar(&c.cfg.InitDummy, "init-dummy", c.cfg.InitDummy, "seed unit 1 when the store is empty")
	f.DurationVar(&c.cfg.DialTimeout, "dial-timeout", c.cfg.DialTimeout, "timeout for connecting to a serial bridge")
	f.DurationVar(&c.cfg.FrameGap, "frame-gap", c.cfg.FrameGap, "pause after every frame")
	f.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error)")
	f.StringVar(&c.cfg.LogFile, "log-file", c.cfg.LogFile, "write logs to this file with size-based rotation")
	f.IntVar(&c.cfg.LogMaxSizeMB, "log-max-size", c.cfg.LogMaxSizeMB, "maximum log file size in MB before rotation")
	f.IntVar(&c.cfg.LogMaxBackups, "log-max-backups", c.cfg.LogMaxBackups, "number of rotated log files to keep")
	hideFlag(f, "frame-gap", c.zlog)

	root.AddCommand(c.sendCommand())
	for _, a := range actions {
		root.AddCommand(c.actionCommand(a))
	}
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.watchCommand())

	return root
}

// load resolves the configuration (flags > env > file) and builds the logger.
func (c *cli) load(cmd *cobra.Command) error {
	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}

	if err := c.cfg.Validate(); err != nil {
		return err
	}

	zl, closer, err := newLogger(c.cfg, os.Stderr)
	if err != nil {
		return err
	}
	c.zlog = zl
	c.closer = closer
	c.logger = log.NewZerologAdapterWithLogger(zl)

	c.zlog.Debug().Interface("config", c.cfg).Msg("configuration")
	return nil
}

// open creates a Centronic instance for the configured device.
func (c *cli) open() (*centronic.Centronic, error) {
	if err := c.cfg.RequireDevice(); err != nil {
		return nil, err
	}
	return centronic.New(centronic.Config{
		Device:      c.cfg.Device,
		StoreDir:    c.cfg.StoreDir,
		InitDummy:   c.cfg.InitDummy,
		DialTimeout: c.cfg.DialTimeout,
		FrameGap:    c.cfg.FrameGap,
	}, centronic.WithLogger(c.logger))
}

func consoleLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}

// newLogger returns a console logger on stderr, or a JSON logger writing to
// a rotating file when LogFile is set.
func newLogger(cfg cliconfig.Config, stderr io.Writer) (zerolog.Logger, io.Closer, error) {
	level, err := cfg.Level()
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	if cfg.LogFile == "" {
		return consoleLogger(stderr, level), nil, nil
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	}
	return zerolog.New(rotator).Level(level).With().Timestamp().Logger(), rotator, nil
}
