// Package cli implements the gamerhub command line client.
package cli

import (
	"context"
	"fmt"

	"gamerhub/internal/apiclient"
	"gamerhub/internal/cache"
	"gamerhub/internal/config"
	"gamerhub/internal/observability"
	"gamerhub/internal/session"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app is the state shared by every subcommand once the root pre-run has
// loaded configuration and restored the session.
type app struct {
	cfg     *config.ClientConfig
	session *session.Session
	client  *apiclient.Client
	redis   *redis.Client
	out     *printer
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree. Each call returns an independent tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "gamerhub",
		Short: "Gamer hub command line client",
		Long: `gamerhub browses and posts to a gamer hub backend: a feed of posts
filtered by game and rank, comments, follows and the admin moderation queue.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			a.close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $XDG_CONFIG_HOME/gamerhub/config.yaml)")
	flags.String("api-url", "", "backend base URL")
	flags.StringP("output", "o", "", "output format: text, yaml or json")
	flags.String("session-store", "", "session store: file, redis or memory")
	flags.String("session-path", "", "session file for the file store")

	root.AddCommand(
		newLoginCommand(a),
		newSignupCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newFeedCommand(a),
		newPostCommand(a),
		newCommentsCommand(a),
		newRankingsCommand(a),
		newAdminCommand(a),
		newFollowCommand(a),
		newUnfollowCommand(a),
		newFollowersCommand(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	config.InitClientViper(cfgFile)

	for key, flag := range map[string]string{
		"api_url":       "api-url",
		"output":        "output",
		"session_store": "session-store",
		"session_path":  "session-path",
	} {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return err
		}
	}

	cfg, err := config.LoadClientConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg
	observability.Configure(cmd.ErrOrStderr(), cfg.LogLevel)
	a.out = newPrinter(cmd.OutOrStdout(), cfg.Output)

	store, err := a.store()
	if err != nil {
		return err
	}
	a.session = session.New(store)
	if err := a.session.Restore(cmd.Context()); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	a.client = apiclient.New(cfg.APIURL, a.session, apiclient.WithTimeout(cfg.Timeout))
	return nil
}

func (a *app) store() (session.Store, error) {
	switch a.cfg.SessionStore {
	case config.SessionStoreRedis:
		rdb, err := cache.NewClient(a.cfg.SessionRedisURL)
		if err != nil {
			return nil, fmt.Errorf("session redis: %w", err)
		}
		a.redis = rdb
		return session.NewRedisStore(rdb, a.cfg.SessionKey, 0), nil
	case config.SessionStoreMemory:
		return session.NewMemoryStore(), nil
	default:
		return session.NewFileStore(a.cfg.SessionPath), nil
	}
}

// ctx returns the command context, never nil.
func ctx(cmd *cobra.Command) context.Context {
	if c := cmd.Context(); c != nil {
		return c
	}
	return context.Background()
}

// requireSession fails early when no one is signed in.
func (a *app) requireSession() error {
	if !a.session.Authenticated() {
		return fmt.Errorf("not signed in; run \"gamerhub login\" first")
	}
	return nil
}
