// Package queue_publisher publishes domain events to RabbitMQ.  Errors are
// logged and returned so callers can ignore broker failures without
// interrupting the main request flow.
package queue_publisher

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/conduit/internal/logger"
	q "github.com/iliyamo/conduit/internal/queue"
)

// PublishArticlePublished publishes an ArticlePublishedEvent to the
// "article.published" queue. The queue is declared durable and the message
// is marked persistent so it survives a broker restart. A broker being down
// must never fail article creation, so the caller is expected to treat a
// returned error as advisory.
func PublishArticlePublished(ctx context.Context, event q.ArticlePublishedEvent) error {
	log := logger.Named("rabbitmq")

	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Warn("dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Warn("channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		"article.published", // name
		true,                // durable
		false,               // autoDelete
		false,               // exclusive
		false,               // noWait
		nil,                 // args
	); err != nil {
		log.Warn("queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Warn("marshal event failed", zap.Error(err))
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",                  // default exchange
		"article.published", // routing key = queue name
		false,               // mandatory
		false,               // immediate
		pub,
	); err != nil {
		log.Warn("publish failed", zap.Error(err))
		return err
	}

	return nil
}
