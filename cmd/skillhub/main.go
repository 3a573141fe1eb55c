package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/skillhub/internal/app"
	"github.com/vovakirdan/skillhub/internal/config"
	"github.com/vovakirdan/skillhub/internal/log"
)

type cli struct {
	configPath string
	logLevel   string

	cfg    config.Config
	logger *zerolog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "skillhub",
		Short:         "SkillHub client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			bootLogger := log.New(c.logLevel)
			cfg, path, err := config.Load(bootLogger, c.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = c.logLevel
			}
			c.cfg = cfg
			c.logger = log.New(cfg.LogLevel)
			c.logger.Debug().Str("config", path).Msg("configuration loaded")
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to config.yaml")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		c.loginCommand(),
		c.registerCommand(),
		c.logoutCommand(),
		c.whoamiCommand(),
		c.profileCommand(),
		c.directionsCommand(),
		c.roomsCommand(),
		c.joinCommand(),
		c.leaveCommand(),
		c.membersCommand(),
		c.articlesCommand(),
		c.postsCommand(),
		c.commentsCommand(),
		c.wikiCommand(),
		c.usersCommand(),
		c.resetCommand(),
		c.serveDemoCommand(),
	)
	return root
}

// withSession opens the client core, restores the session and runs fn.
func (c *cli) withSession(ctx context.Context, fn func(*app.Client) error) error {
	client, err := app.NewClient(&c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer client.Close()

	client.Bootstrap(ctx)
	return fn(client)
}

// requireSession is withSession for commands that need a signed-in user.
func (c *cli) requireSession(ctx context.Context, fn func(*app.Client) error) error {
	return c.withSession(ctx, func(client *app.Client) error {
		if !client.Session.IsAuthenticated() {
			return fmt.Errorf("not signed in, run: skillhub login")
		}
		return fn(client)
	})
}
