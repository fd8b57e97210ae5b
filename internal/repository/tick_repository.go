package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"BitUp/internal/domain/models"
	"BitUp/internal/domain/repository"
	pkgkafka "BitUp/pkg/kafka"
)

// TickMessage is the wire schema for ticks on the Kafka topic. Decimals
// travel as strings to keep full precision through JSON.
type TickMessage struct {
	Symbol   string `json:"symbol"`
	T        int64  `json:"t"` // unix millis
	Price    string `json:"p"`
	Quantity string `json:"q"`
}

// ToTick converts a wire message back into a validated domain tick.
func (m TickMessage) ToTick() (models.Tick, error) {
	price, err := decimal.NewFromString(m.Price)
	if err != nil {
		return models.Tick{}, fmt.Errorf("tick message price: %w", err)
	}
	qty, err := decimal.NewFromString(m.Quantity)
	if err != nil {
		return models.Tick{}, fmt.Errorf("tick message quantity: %w", err)
	}
	return models.NewTick(m.Symbol, time.UnixMilli(m.T).UTC(), price, qty)
}

// NewTickMessage flattens a domain tick for transport.
func NewTickMessage(t models.Tick) TickMessage {
	return TickMessage{
		Symbol:   t.Symbol,
		T:        t.Timestamp.UnixMilli(),
		Price:    t.Price.String(),
		Quantity: t.Quantity.String(),
	}
}

// ClickHouseTickStore implements TickStore on a ClickHouse trades table.
type ClickHouseTickStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseTickStore creates the store for the given table.
func NewClickHouseTickStore(db *sql.DB, table string) repository.TickStore {
	return &ClickHouseTickStore{db: db, table: table}
}

func (s *ClickHouseTickStore) Store(ctx context.Context, t models.Tick) error {
	q := fmt.Sprintf("INSERT INTO %s (ts, symbol, price, quantity) VALUES (?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q, t.Timestamp, t.Symbol, t.Price, t.Quantity)
	return err
}

func (s *ClickHouseTickStore) StoreBatch(ctx context.Context, ticks []models.Tick) error {
	if len(ticks) == 0 {
		return nil
	}
	// Multi-row VALUES insert, chunked to bound statement size.
	const chunkSize = 2000
	for start := 0; start < len(ticks); start += chunkSize {
		end := start + chunkSize
		if end > len(ticks) {
			end = len(ticks)
		}
		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*4)
		for _, t := range ticks[start:end] {
			if t.Validate() != nil {
				continue
			}
			values = append(values, "(?, ?, ?, ?)")
			args = append(args, t.Timestamp, t.Symbol, t.Price, t.Quantity)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (ts, symbol, price, quantity) VALUES %s",
			s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

// QueryWindow returns the symbol's ticks within [from, to], ascending by
// timestamp as the aggregator requires.
func (s *ClickHouseTickStore) QueryWindow(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Tick, error) {
	q := fmt.Sprintf(
		"SELECT ts, symbol, price, quantity FROM %s WHERE symbol = ? AND ts >= ? AND ts <= ? ORDER BY ts ASC LIMIT ?",
		s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("query ticks: %w", err)
	}
	defer rows.Close()

	ticks := make([]models.Tick, 0, 1024)
	for rows.Next() {
		var t models.Tick
		if err := rows.Scan(&t.Timestamp, &t.Symbol, &t.Price, &t.Quantity); err != nil {
			return nil, fmt.Errorf("scan tick: %w", err)
		}
		ticks = append(ticks, t)
	}
	return ticks, rows.Err()
}

func (s *ClickHouseTickStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseTickStore) Close() error {
	return nil // pool lifecycle is owned by pkg/clickhouse
}

// KafkaTickPublisher implements Publisher for Kafka.
type KafkaTickPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaTickPublisher creates the Kafka publisher.
func NewKafkaTickPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaTickPublisher{producer: producer, topic: topic}
}

func (p *KafkaTickPublisher) Publish(ctx context.Context, t models.Tick) error {
	return p.producer.Publish(ctx, p.topic, []byte(t.Symbol), NewTickMessage(t))
}

func (p *KafkaTickPublisher) PublishBatch(ctx context.Context, ticks []models.Tick) error {
	if len(ticks) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(ticks))
	for i, t := range ticks {
		msgs[i] = pkgkafka.Message{Key: []byte(t.Symbol), Value: NewTickMessage(t)}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaTickPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
