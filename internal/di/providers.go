package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"BitUp/internal/domain/repository"
	"BitUp/internal/handler/api"
	mid "BitUp/internal/middleware"
	"BitUp/internal/quant/fee"
	internalrepo "BitUp/internal/repository"
	"BitUp/internal/service/feed"
	"BitUp/internal/service/markets"
	"BitUp/internal/usecase"
	"BitUp/pkg/cache"
	pkgch "BitUp/pkg/clickhouse"
	"BitUp/pkg/config"
	pkgkafka "BitUp/pkg/kafka"
	applogger "BitUp/pkg/logger"
	"BitUp/pkg/metrics"
	"BitUp/pkg/server"
)

// ProvideClickHouseClient creates a ClickHouse client and ensures the tick
// schema exists.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	table := cfg.ClickHouse.Table
	if table == "" {
		table = "trades_raw"
	}
	if err := client.InitSchema(ctx, []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", db),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.%s (ts DateTime64(3), symbol String, price Decimal(38, 18), quantity Decimal(38, 18)) ENGINE=MergeTree ORDER BY (symbol, ts)", db, table),
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideTickStore creates the ClickHouse tick store.
func ProvideTickStore(chClient *pkgch.Client, cfg *config.Config) repository.TickStore {
	table := cfg.ClickHouse.Table
	if table == "" {
		table = "trades_raw"
	}
	return internalrepo.NewClickHouseTickStore(chClient.DB(), cfg.ClickHouse.Database+"."+table)
}

// ProvideTickPublisher creates the Kafka tick publisher.
func ProvideTickPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaTickPublisher(producer, cfg.Kafka.Topic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaTicksHandler registers the handler for the ticks topic.
func ProvideKafkaTicksHandler(store repository.TickStore, metrics repository.Metrics, cfg *config.Config) *usecase.KafkaTicksHandler {
	return usecase.NewKafkaTicksHandler(cfg.Kafka.Topic, store, metrics)
}

// ProvideTickStream creates the exchange trade feed stream.
func ProvideTickStream(cfg *config.Config) repository.TickStream {
	return feed.New(
		cfg.Feed.APIKey,
		cfg.Feed.WebSocketURL,
		cfg.Feed.Symbols,
		cfg.Feed.ReconnectDelay,
		cfg.Feed.PingInterval,
	)
}

// ProvideCache creates the response cache. Redis when enabled, otherwise an
// in-process cache.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	host, portStr, err := net.SplitHostPort(cfg.Cache.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis addr: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("redis port: %w", err)
	}
	return cache.NewRedisCache(
		cache.WithRedisHost(host),
		cache.WithRedisPort(port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
	)
}

// ProvideRateTable builds the fee schedule, falling back to the standard
// exchange rates where config is silent.
func ProvideRateTable(cfg *config.Config) fee.RateTable {
	rates := fee.DefaultRates()
	if v, err := decimal.NewFromString(cfg.Rates.Spot); err == nil && cfg.Rates.Spot != "" {
		rates.SpotRate = v
	}
	if v, err := decimal.NewFromString(cfg.Rates.Taker); err == nil && cfg.Rates.Taker != "" {
		rates.TakerRate = v
	}
	if v, err := decimal.NewFromString(cfg.Rates.Maker); err == nil && cfg.Rates.Maker != "" {
		rates.MakerRate = v
	}
	if v, err := decimal.NewFromString(cfg.Rates.Funding); err == nil && cfg.Rates.Funding != "" {
		rates.FundingRate = v
	}
	if cfg.Rates.DiscountToken != "" {
		rates.DiscountToken = cfg.Rates.DiscountToken
	}
	if v, err := decimal.NewFromString(cfg.Rates.DiscountMultiplier); err == nil && cfg.Rates.DiscountMultiplier != "" {
		rates.DiscountMultiplier = v
	}
	return rates
}

// ProvideTickProcessor creates the tick processor use case.
func ProvideTickProcessor(
	pub repository.Publisher,
	store repository.TickStore,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.TickProcessor {
	return usecase.NewTickProcessor(pub, store, metrics, cfg.Backend.Type)
}

// ProvideTickCollector creates the tick collector use case.
func ProvideTickCollector(
	stream repository.TickStream,
	processor *usecase.TickProcessor,
	metrics repository.Metrics,
) *usecase.TickCollector {
	// throttle + retry pipeline between WebSocket and backend
	pipe := mid.NewTickPipeline(processor, metrics,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewTickCollector(stream, processor, metrics, pipe)
}

// ProvideCandlesUseCase creates the candle aggregation use case.
func ProvideCandlesUseCase(store repository.TickStore, c cache.Service, metrics repository.Metrics, cfg *config.Config) *usecase.CandlesUseCase {
	ttl := cfg.Cache.TTL
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	uc := usecase.NewCandlesUseCase(store, c, metrics, ttl)
	if cfg.Markets.Enabled && cfg.Markets.BaseURL != "" {
		timeout := cfg.Markets.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		uc.SetExternalSource(markets.New(cfg.Markets.BaseURL, timeout))
	}
	return uc
}

// ProvideRiskUseCase creates the position risk use case.
func ProvideRiskUseCase(rates fee.RateTable, metrics repository.Metrics) *usecase.RiskUseCase {
	return usecase.NewRiskUseCase(rates, metrics)
}

// ProvideStakeUseCase creates the launchpool accrual use case.
func ProvideStakeUseCase(metrics repository.Metrics) *usecase.StakeUseCase {
	return usecase.NewStakeUseCase(metrics)
}

// ProvideQuantHandler creates the HTTP handler for the computation API.
func ProvideQuantHandler(
	logger *applogger.Logger,
	candles *usecase.CandlesUseCase,
	riskUC *usecase.RiskUseCase,
	stakeUC *usecase.StakeUseCase,
	store repository.TickStore,
) *api.QuantHandler {
	return api.NewQuantHandler(logger, candles, riskUC, stakeUC, store)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	metrics repository.Metrics,
	collector *usecase.TickCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaTicksHandler,
	chClient *pkgch.Client,
	handler *api.QuantHandler,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(mid.NewConsumeMetricsHook(metrics))
	}
	app := server.New(cfg, logger, collector, consumer, kh, chClient)
	app.SetHTTPHandler(handler)
	if collector != nil {
		app.TickProc = collector.Processor()
	}
	return app
}
