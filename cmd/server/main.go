package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mendapp/mend/internal/api"
	"github.com/mendapp/mend/internal/config"
	"github.com/mendapp/mend/internal/llm"
	"github.com/mendapp/mend/internal/pkg/logger"
	"github.com/mendapp/mend/internal/repository/dynamo"
	"github.com/mendapp/mend/internal/repository/postgres"
	"github.com/mendapp/mend/internal/service/bucket"
	"github.com/mendapp/mend/internal/service/compose"
	"github.com/mendapp/mend/internal/service/pattern"
	"github.com/mendapp/mend/internal/service/preferences"
	"github.com/mendapp/mend/internal/service/reflection"
	"github.com/mendapp/mend/internal/service/signals"
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v\n"+
			"  Hint: Run 'lsof -i :%d' to find the blocking process", port, addr, err, port)
	}
	ln.Close()
	return nil
}

func extractHost(dsn string) string {
	at := strings.Index(dsn, "@")
	if at < 0 {
		return "(unknown)"
	}
	rest := dsn[at+1:]
	slash := strings.Index(rest, "/")
	if slash >= 0 {
		rest = rest[:slash]
	}
	return rest
}

func fatal(msg string, err error) {
	logger.Error(msg, "error", err)
	logger.Sync()
	os.Exit(1)
}

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		fatal("failed to load config", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Log.Level))
	logger.SetRedactPII(cfg.Log.Redact())
	defer logger.Sync()

	if err := checkPortAvailable(cfg.Server.GetHost(), cfg.Server.Port); err != nil {
		fatal("pre-flight check failed", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Database.URL == "" {
		fatal("database is not configured", fmt.Errorf("set database.url or DATABASE_URL"))
	}
	db, err := postgres.Open(ctx, cfg.Database.URL, postgres.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime(),
	})
	if err != nil {
		fatal("failed to connect to database", err)
	}
	defer db.Close()
	logger.Info("database connected", "host", extractHost(cfg.Database.URL))

	redisClient := connectRedis(ctx, cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}

	completer, err := llm.New(ctx, llm.Config{
		Provider:   cfg.LLM.Provider,
		Model:      cfg.LLM.Model,
		APIKey:     cfg.LLM.APIKey,
		BaseURL:    cfg.LLM.BaseURL,
		Region:     cfg.LLM.Region,
		AccessKey:  cfg.LLM.AccessKey,
		SecretKey:  cfg.LLM.SecretKey,
		MaxRetries: cfg.LLM.MaxRetries,
		MaxTokens:  cfg.LLM.MaxTokens,
		Timeout:    cfg.LLM.Timeout(),
	})
	if err != nil {
		fatal("failed to initialize completer", err)
	}

	loc, err := cfg.Signals.Location()
	if err != nil {
		fatal("invalid signals timezone", err)
	}

	signalRepo := postgres.NewSignalRepo(db)
	signalSvc := signals.NewService(signalRepo,
		signals.WithExtractor(signals.NewExtractor(completer)),
		signals.WithLocation(loc),
	)

	var cache pattern.Cache
	if cfg.Patterns.CacheBackend == "redis" && redisClient != nil {
		cache = pattern.NewRedisCache(redisClient, cfg.Redis.Prefix+":snapshot")
	}
	patternSvc := pattern.NewService(signalRepo, cache, pattern.WithTTL(cfg.Patterns.TTL()))

	throttleCfg := reflection.ThrottleConfig{Cooldown: cfg.Reflection.Cooldown(), Location: loc}
	var throttle reflection.Throttle = reflection.NewMemoryThrottle(throttleCfg)
	if cfg.Reflection.ThrottleBackend == "redis" && redisClient != nil {
		throttle = reflection.NewRedisThrottle(redisClient, cfg.Redis.Prefix+":reflection", throttleCfg)
	}
	engine := reflection.NewEngine(signalRepo, throttle)

	snapshots, prefRepo, err := conversationStores(ctx, cfg.Conversation, db)
	if err != nil {
		fatal("failed to initialize conversation store", err)
	}

	composeCfg := compose.DefaultConfig()
	composeCfg.Temperature = cfg.Compose.Temperature
	composeCfg.DraftMaxTokens = cfg.Compose.DraftMaxTokens
	composeCfg.RewriteMaxTokens = cfg.Compose.RewriteMaxTokens
	composeCfg.PromptWordLimit = cfg.Compose.PromptWordLimit
	composeCfg.HistoryLimit = cfg.Compose.HistoryLimit
	composeCfg.SummaryTimeout = cfg.Compose.SummaryTimeout()
	composeCfg.Rubric.WordCeiling = cfg.Compose.WordCeiling

	composer, err := compose.NewComposer(completer, bucket.NewClassifier(cfg.Bucket.Weights),
		compose.WithStates(patternSvc),
		compose.WithSnapshots(snapshots),
		compose.WithConfig(composeCfg),
	)
	if err != nil {
		fatal("failed to initialize composer", err)
	}

	health := api.NewHealthChecker(api.HealthDeps{
		DB:            db,
		Redis:         redisClient,
		RedisWanted:   cfg.Redis.Enabled(),
		Provider:      cfg.LLM.Provider + "/" + cfg.LLM.Model,
		ProviderReady: cfg.LLM.Provider == "bedrock" || cfg.LLM.APIKey != "",
	})

	server := api.NewServer(cfg.Server, api.Deps{
		Composer:   composer,
		Signals:    signalSvc,
		Patterns:   patternSvc,
		Reflection: engine,
		Sessions:   reflection.NewSessions(cfg.Reflection.SessionIdle()),
		Modes:      preferences.NewService(prefRepo),
		Health:     health,
	})

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := cfg.Server.Addr()
		logger.Info("starting server", "addr", addr, "provider", cfg.LLM.Provider,
			"conversation_backend", cfg.Conversation.Backend)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			fatal("server error", err)
		}
	}()

	<-done
	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutSecs)*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown error", "error", err)
	}
	// Let in-flight conversation summaries land.
	composer.Wait()

	logger.Info("server stopped")
}

// connectRedis returns nil when Redis is not configured or unreachable;
// the memory backends are used instead.
func connectRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if !cfg.Enabled() {
		logger.Info("redis not configured, using in-process cache and throttle")
		return nil
	}
	redisURL := cfg.URL
	if redisURL == "" {
		redisURL = cfg.Addr
	}

	var client *redis.Client
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		client = redis.NewClient(&redis.Options{Addr: redisURL})
	} else {
		client = redis.NewClient(opts)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis connection failed, using in-process cache and throttle", "error", err)
		client.Close()
		return nil
	}
	logger.Info("redis connected")
	return client
}

func conversationStores(ctx context.Context, cfg config.ConversationConfig, db *sql.DB) (compose.SnapshotRepository, preferences.Repository, error) {
	switch cfg.Backend {
	case "dynamodb", "dynamo":
		client, err := dynamo.NewClient(ctx, cfg.AWSRegion, cfg.GetAWSProfile())
		if err != nil {
			return nil, nil, err
		}
		logger.Info("conversation rows on dynamodb", "table", cfg.DynamoDBTable, "region", cfg.AWSRegion)
		return dynamo.NewSnapshotStore(client, cfg.DynamoDBTable), dynamo.NewPreferenceStore(client, cfg.DynamoDBTable), nil
	case "postgres", "":
		return postgres.NewConversationRepo(db), postgres.NewPreferenceRepo(db), nil
	default:
		return nil, nil, fmt.Errorf("unknown conversation backend %q", cfg.Backend)
	}
}
