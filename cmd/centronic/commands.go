package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bft-labs/centronic"
	"github.com/bft-labs/centronic/internal/spool"
)

// action is a single-keyword shortcut command.
type action struct {
	name    string
	keyword string
	short   string
}

var actions = []action{
	{"up", "UP", "Move the shutter up"},
	{"up2", "UP2", "Move the shutter up to the intermediate position"},
	{"down", "DOWN", "Move the shutter down"},
	{"down2", "DOWN2", "Move the shutter down to the intermediate position"},
	{"halt", "HALT", "Stop the shutter"},
	{"pair", "TRAIN", "Pair the unit with a receiver in learning mode"},
	{"unpair", "REMOVE", "Remove the unit from the receiver"},
	{"clearpos", "CLEARPOS", "Clear the stored intermediate position"},
}

func (c *cli) sendCommand() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "send <channel> <keyword>",
		Short: "Send a command keyword (UP, UP2, DOWN, DOWN2, HALT, TRAIN, CLEARPOS, REMOVE, UP:<s>, DOWN:<s>)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.send(cmd.Context(), args[0], args[1], dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "transmit without persisting counters")
	return cmd
}

func (c *cli) actionCommand(a action) *cobra.Command {
	return &cobra.Command{
		Use:   a.name + " <channel>",
		Short: a.short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.send(cmd.Context(), args[0], a.keyword, false)
		},
	}
}

func (c *cli) moveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <channel> <up|down> <duration>",
		Short: "Move for a duration and then halt",
		Long:  "Move for a duration and then halt. The duration is seconds or a Go duration such as 1500ms.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := centronic.ParseDirection(args[1])
			if err != nil {
				return err
			}
			d, err := parseMoveDuration(args[2])
			if err != nil {
				return err
			}

			ctl, err := c.open()
			if err != nil {
				return err
			}
			defer ctl.Close()
			return ctl.MoveFor(cmd.Context(), args[0], dir, d)
		},
	}
}

func (c *cli) listCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known units",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			units, err := centronic.LoadUnits(cmd.Context(), c.cfg.StoreDir)
			if err != nil {
				return err
			}
			return renderUnits(cmd.OutOrStdout(), units, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format (table, json, yaml)")
	return cmd
}

func (c *cli) watchCommand() *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Send commands dropped as *.cmd files into the spool directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := c.open()
			if err != nil {
				return err
			}
			defer ctl.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err = spool.New(c.cfg.SpoolDir, debounce, ctl, c.logger).Run(ctx)
			c.zlog.Info().Msg("watcher stopped")
			return err
		},
	}
	cmd.Flags().StringVar(&c.cfg.SpoolDir, "spool-dir", c.cfg.SpoolDir, "directory watched for *.cmd files")
	cmd.Flags().DurationVar(&debounce, "debounce", spool.DefaultDebounce, "quiet period before new files are processed")
	return cmd
}

func (c *cli) send(ctx context.Context, channel, keyword string, dryRun bool) error {
	ctl, err := c.open()
	if err != nil {
		return err
	}
	defer ctl.Close()
	return ctl.Send(ctx, channel, keyword, dryRun)
}

// parseMoveDuration accepts whole seconds or a Go duration.
func parseMoveDuration(s string) (time.Duration, error) {
	if secs, err := strconv.Atoi(s); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("duration must not be negative: %s", s)
		}
		if int64(secs) > centronic.MaxMoveSeconds {
			return 0, fmt.Errorf("duration too long: %s seconds", s)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must not be negative: %s", s)
	}
	return d, nil
}
