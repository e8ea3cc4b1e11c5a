package cli

import (
	"github.com/spf13/cobra"

	"github.com/ByLCY/vellum/cache"
	"github.com/ByLCY/vellum/pipeline"
	"github.com/ByLCY/vellum/server"
)

func newServeCmd(root *rootOpts) *cobra.Command {
	var addr, redisURL string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /render over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if redisURL != "" {
				cfg.Server.RedisURL = redisURL
			}

			p, err := pipeline.New(cfg, logger)
			if err != nil {
				return err
			}
			var c cache.Cache = cache.NewMemoryCache(cfg.Server.CacheBytes)
			if cfg.Server.RedisURL != "" {
				rc, err := cache.NewRedisCache(ctx, cfg.Server.RedisURL, "vellum:")
				if err != nil {
					return err
				}
				c = rc
				logger.Info("using redis cache")
			}
			defer c.Close()

			return server.New(p, c, cfg.Server.CacheTTL, logger).ListenAndServe(ctx, cfg.Server.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&redisURL, "redis", "", "redis URL for the render cache (default: in-memory)")
	return cmd
}
