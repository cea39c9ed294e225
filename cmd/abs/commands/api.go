package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/autovault/internal/api"
	"github.com/wonny/autovault/internal/api/handlers"
	"github.com/wonny/autovault/internal/report"
	"github.com/wonny/autovault/pkg/config"
	"github.com/wonny/autovault/pkg/logger"
	"github.com/wonny/autovault/pkg/redis"
)

// redisPrefix namespaces every key this service writes
const redisPrefix = "autovault"

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 요청 본문 대출 풀 분석 (Redis 캐시, DB 아카이브는 선택)
- 아카이브된 리포트 조회

Endpoints:
  GET  /health               - Health check
  POST /api/analyze          - 풀 분석
  POST /api/validate         - 검증 + lint
  GET  /api/reports          - 최근 리포트 목록
  GET  /api/reports/{run_id} - 리포트 조회

Example:
  go run ./cmd/abs api
  go run ./cmd/abs api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== AutoVault ABS API Server ===")

	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(logger.Fields{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Engine + report builder
	engine, err := newEngine(cfg, log, engineOptions{})
	if err != nil {
		return err
	}
	builder, err := report.NewBuilder(engine, cfg.Engine.Workers, log)
	if err != nil {
		return fmt.Errorf("create report builder: %w", err)
	}

	ctx := cmd.Context()

	// 4. Optional archive (PostgreSQL)
	db, repo := openArchive(ctx, cfg, log)
	defer db.Close()

	// 5. Optional cache + shared rate limit (Redis)
	rdb := connectRedis(ctx, cfg, log)
	defer rdb.Close()

	cache := redis.NewCache(rdb, redisPrefix)
	limiter := api.NewRateLimiter(cfg.API.RateLimit, cfg.API.RateBurst, redis.NewRateLimiter(rdb, redisPrefix))

	// 6. Handlers
	health := handlers.NewHealthHandler(nil, rdb.Enabled())
	if db != nil {
		health = handlers.NewHealthHandler(db, rdb.Enabled())
	}

	router := api.NewRouter(api.Handlers{
		Health:   health,
		Analysis: handlers.NewAnalysisHandler(engine, builder, cache, repo, log),
		Reports:  handlers.NewReportsHandler(repo, cache, log),
	}, limiter, log)

	// 7. Create server
	server := api.New(cfg, log, router)

	fmt.Fprintf(out, "\n✅ Server listening on %s\n", server.Addr())
	fmt.Fprintln(out, "\nAvailable endpoints:")
	PrintList(out, []string{
		"GET  /health",
		"POST /api/analyze",
		"POST /api/validate",
		"GET  /api/reports",
		"GET  /api/reports/{run_id}",
	})
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	// 8. Serve until SIGINT/SIGTERM, then drain
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(sigCtx)
}

// connectRedis returns a connected client, or a disabled one when Redis is
// off or unreachable
func connectRedis(ctx context.Context, cfg *config.Config, log *logger.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		return redis.Disabled()
	}

	client, err := redis.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, running without report cache")
		return redis.Disabled()
	}

	log.Info("Connected to Redis")
	return client
}
