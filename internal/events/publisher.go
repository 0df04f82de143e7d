// Package events publishes recognition result events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"speech-result-gateway/internal/observability/metrics"
)

// Publisher publishes result events to separate Kafka topics for
// recognized results and cancellations.
type Publisher struct {
	writerResults  *kafka.Writer
	writerCanceled *kafka.Writer
	principal      string
	topicResults   string
	topicCanceled  string
	enabled        bool
	metrics        *metrics.Metrics
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers       []string
	TopicResults  string
	TopicCanceled string
	Principal     string
	Enabled       bool
}

// New creates a Kafka publisher. With Kafka disabled (or no brokers)
// events are logged instead of written, which keeps the gateway usable
// in local development.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil {
		log.Info().Msg("Kafka disabled (nil config), using log-only mode")
		return &Publisher{
			enabled: false,
			metrics: m,
		}
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		return &Publisher{
			principal:     cfg.Principal,
			topicResults:  cfg.TopicResults,
			topicCanceled: cfg.TopicCanceled,
			enabled:       false,
			metrics:       m,
		}
	}

	// Longer dial timeouts for DNS resolution in Kubernetes.
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	transport := &kafka.Transport{
		Dial: dialer.DialFunc,
	}

	writerResults := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicResults,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	writerCanceled := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicCanceled,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicResults", cfg.TopicResults).
		Str("topicCanceled", cfg.TopicCanceled).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writerResults:  writerResults,
		writerCanceled: writerCanceled,
		principal:      cfg.Principal,
		topicResults:   cfg.TopicResults,
		topicCanceled:  cfg.TopicCanceled,
		enabled:        true,
		metrics:        m,
	}
}

// PublishResult publishes a recognized result event (interim or final).
func (p *Publisher) PublishResult(ctx context.Context, eventType, key string, event any) error {
	return p.publish(ctx, p.writerResults, p.topicResults, eventType, key, event)
}

// PublishCanceled publishes a cancellation event.
func (p *Publisher) PublishCanceled(ctx context.Context, key string, event any) error {
	return p.publish(ctx, p.writerCanceled, p.topicCanceled, "canceled", key, event)
}

// publish writes one event to a specific Kafka writer.
func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, eventType, key string, event any) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		return err
	}

	log.Debug().
		Str("principal", p.principal).
		Str("topic", topic).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("Publishing event")

	// If Kafka is disabled, just log
	if !p.enabled || writer == nil {
		p.metrics.RecordPublish(topic, eventType, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(eventType)},
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to write to Kafka")
		p.metrics.RecordPublish(topic, eventType, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordPublish(topic, eventType, nil, time.Since(start).Seconds())
	return nil
}

// Close closes both Kafka writers.
func (p *Publisher) Close() error {
	var err error
	if p.writerResults != nil {
		if e := p.writerResults.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing results writer")
			err = e
		}
	}
	if p.writerCanceled != nil {
		if e := p.writerCanceled.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing canceled writer")
			err = e
		}
	}
	return err
}
