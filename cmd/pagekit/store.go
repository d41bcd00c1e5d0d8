package main

import (
	"context"
	"encoding/json"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/vango-dev/pagekit/internal/config"
	"github.com/vango-dev/pagekit/internal/errors"
	"github.com/vango-dev/pagekit/pkg/pref"
)

func storeCmd(opts *globalOptions) *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Read and write stored values",
		Long: `Read and write JSON values on the configured storage backend.

The backend is taken from storage.backend in pagekit.json (memory,
file, redis or s3) unless --backend is given. Values are JSON.

Examples:
  pagekit store set theme '"dark"' --backend=file
  pagekit store get theme --backend=file
  pagekit store rm theme --backend=file`,
	}

	cmd.PersistentFlags().StringVarP(&backend, "backend", "b", "", "Storage backend (default from pagekit.json)")

	withStore := func(cmd *cobra.Command, fn func(ctx context.Context, store *pref.Store) error) error {
		e, err := loadEnv(opts, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		if backend != "" {
			e.cfg.Storage.Backend = backend
			if err := e.cfg.Validate(); err != nil {
				return err
			}
		}

		ctx := commandContext(cmd)
		surface, closeFn, err := openSurface(ctx, e.cfg.Storage)
		if err != nil {
			return err
		}
		defer closeFn()

		store := pref.NewStore(surface, pref.WithLogger(e.logger), pref.WithMetrics(e.metrics))
		return fn(ctx, store)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print the value stored under key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd, func(ctx context.Context, store *pref.Store) error {
					raw := pref.Get[json.RawMessage](ctx, store, args[0], nil)
					if raw == nil {
						return errors.New("E002").WithDetail(fmt.Sprintf("No value stored under %q", args[0]))
					}
					fmt.Fprintln(cmd.OutOrStdout(), string(raw))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "set <key> <json>",
			Short: "Store a JSON value under key",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if !json.Valid([]byte(args[1])) {
					return errors.New("E041").
						WithDetail(fmt.Sprintf("Got %s", args[1])).
						WithSuggestion(`Quote strings twice, e.g. '"dark"'`)
				}
				return withStore(cmd, func(ctx context.Context, store *pref.Store) error {
					if !store.Set(ctx, args[0], json.RawMessage(args[1])) {
						return errors.New("E025").WithDetail(fmt.Sprintf("Could not store %q", args[0]))
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:     "rm <key>",
			Aliases: []string{"remove"},
			Short:   "Remove the value stored under key",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd, func(ctx context.Context, store *pref.Store) error {
					if !store.Remove(ctx, args[0]) {
						return errors.New("E025").WithDetail(fmt.Sprintf("Could not remove %q", args[0]))
					}
					return nil
				})
			},
		},
	)

	return cmd
}

// openSurface opens the surface named by cfg.Backend. The returned function
// releases it.
func openSurface(ctx context.Context, cfg config.StorageConfig) (pref.Surface, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendMemory:
		return pref.NewMemorySurface(cfg.QuotaBytes), noop, nil

	case config.BackendFile:
		return pref.NewFileSurface(cfg.Path), noop, nil

	case config.BackendRedis:
		surface, err := pref.NewRedisSurface(ctx, pref.RedisConfig{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
		if err != nil {
			return nil, nil, errors.New("E026").Wrap(err).
				WithSuggestion("Check storage.redis.addr in pagekit.json")
		}
		return surface, surface.Close, nil

	case config.BackendS3:
		var loadOpts []func(*awsconfig.LoadOptions) error
		if cfg.S3.Region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.S3.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, nil, errors.New("E026").Wrap(err).
				WithSuggestion("Configure AWS credentials or storage.s3.region")
		}
		return pref.NewS3Surface(s3.NewFromConfig(awsCfg), cfg.S3.Bucket, cfg.S3.Prefix), noop, nil
	}

	return nil, nil, errors.New("E032").WithDetail(fmt.Sprintf("Got storage.backend = %q", cfg.Backend))
}
