package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"online-judge/internal/config"
	redisinfra "online-judge/internal/infra/redis"
)

// NewTopCmd prints the leaderboard mirrored into Redis by a running server.
func NewTopCmd(configPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Print the leaderboard mirrored in Redis",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.Redis.Addr == "" {
				return fmt.Errorf("redis addr not configured")
			}
			client := redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			defer client.Close()

			mirror := redisinfra.NewLeaderboardMirror(client, cfg.Redis.LeaderboardKey, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
			entries, err := mirror.Top(ctx, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No leaderboard published.")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%d. %s | Score: %d | Penalties: %d\n", e.Rank, e.Username, e.Score, e.Penalties)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of entries (0 for all)")
	return cmd
}
