package di

import (
	"context"
	"fmt"
	"net/http"

	"cardmind-backend/application/ports"
	"cardmind-backend/infrastructure/capability"
	"cardmind-backend/infrastructure/config"
	"cardmind-backend/infrastructure/persistence/dynamo"
	"cardmind-backend/infrastructure/persistence/memory"
	redisstore "cardmind-backend/infrastructure/persistence/redis"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ProvideLogger creates the process logger: JSON in production,
// human-readable in development.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	return zapCfg.Build()
}

// ProvideCapabilityService creates the Bedrock-backed model service.
// Every invocation is bounded by the configured request timeout so a
// hung model call degrades the node instead of wedging the request.
func ProvideCapabilityService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.CapabilityService, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := bedrockruntime.NewFromConfig(awsCfg)
	return capability.NewBedrockService(client, cfg.BedrockTextModel, cfg.BedrockEmbModel, logger), nil
}

// ProvideStateStore creates the configured state backend. Returns a nil
// store when persistence is disabled, either by configuration or because
// the backend is unreachable; the warning is logged once here and the
// process then runs statelessly for its lifetime.
func ProvideStateStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.StateStore, func() error) {
	switch cfg.StateBackend {
	case config.StateBackendRedis:
		store, err := redisstore.NewStore(cfg.RedisAddr, cfg.RedisDB, logger)
		if err != nil {
			logger.Warn("Redis unavailable, session persistence disabled for this process",
				zap.String("addr", cfg.RedisAddr),
				zap.Error(err),
			)
			return nil, nil
		}
		return store, store.Close

	case config.StateBackendDynamo:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Warn("AWS config unavailable, session persistence disabled for this process", zap.Error(err))
			return nil, nil
		}
		return dynamo.NewStore(dynamodb.NewFromConfig(awsCfg), cfg.DynamoTable, logger), nil

	case config.StateBackendMemory:
		store := memory.NewStore()
		return store, func() error {
			store.Close()
			return nil
		}

	default:
		logger.Info("Session persistence disabled by configuration")
		return nil, nil
	}
}
