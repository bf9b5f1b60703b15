// Package events publishes attrition risk escalations to Kafka.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"

	"hrinsight/internal/domain/attrition"
)

const (
	EventRiskEscalated = "attrition.risk.escalated"

	defaultPublishBudget = 10 * time.Second
	writeTimeout         = 5 * time.Second
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type envelope struct {
	Type       string               `json:"type"`
	OccurredAt time.Time            `json:"occurredAt"`
	Data       attrition.Escalation `json:"data"`
}

// KafkaPublisher writes one JSON message per escalation, keyed by employee id
// so that events for one employee stay on one partition. A batch is written
// in a single call and shares one retry budget.
type KafkaPublisher struct {
	writer   messageWriter
	topic    string
	budget   time.Duration
	OnFailed func()
}

// NewKafkaPublisher returns nil when brokers or topic are missing. A nil
// publisher is safe to use and publishes nothing.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaPublisher{writer: writer, topic: topic, budget: defaultPublishBudget}
}

func escalationMessage(evt attrition.Escalation) (kafka.Message, error) {
	payload, err := json.Marshal(envelope{Type: EventRiskEscalated, OccurredAt: evt.CalculatedAt, Data: evt})
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(evt.TenantID + "/" + evt.EmployeeID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(EventRiskEscalated)},
			{Key: "batch-id", Value: []byte(evt.BatchID)},
		},
	}, nil
}

// PublishEscalations writes the batch in one call and retries transient
// failures until the publish budget is spent.
func (p *KafkaPublisher) PublishEscalations(ctx context.Context, escalations []attrition.Escalation) error {
	if p == nil || p.writer == nil || len(escalations) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(escalations))
	for _, evt := range escalations {
		msg, err := escalationMessage(evt)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	budgetCtx, cancel := context.WithTimeout(ctx, p.budget)
	defer cancel()
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = p.budget
	b.MaxInterval = 2 * time.Second
	err := backoff.Retry(func() error {
		writeCtx, cancel := context.WithTimeout(budgetCtx, writeTimeout)
		defer cancel()
		return p.writer.WriteMessages(writeCtx, msgs...)
	}, backoff.WithContext(b, budgetCtx))
	if err != nil {
		slog.Warn("kafka publish failed", "topic", p.topic, "count", len(msgs), "err", err)
		if p.OnFailed != nil {
			p.OnFailed()
		}
		return err
	}
	return nil
}

// Close flushes and closes the writer. Safe on a nil publisher.
func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// LogPublisher records escalations in the log when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) PublishEscalations(_ context.Context, escalations []attrition.Escalation) error {
	for _, evt := range escalations {
		slog.Info("attrition risk escalated", "tenantId", evt.TenantID, "employeeId", evt.EmployeeID, "riskScore", evt.RiskScore)
	}
	return nil
}
