package rabbitmq

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"katalog/internal/models"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// StockEventsQueue is the durable queue stock events are routed to.
const StockEventsQueue = "stock_events"

// Channel is the subset of *amqp.Channel used by Client.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel Channel
	logger  *zap.Logger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient dials RabbitMQ, opens a channel and declares StockEventsQueue.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	c, err := newClient(conn, ch, logger)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	logger.Info("RabbitMQ client connected", zap.String("queue", StockEventsQueue))
	return c, nil
}

// NewClientWithChannel builds a Client on an already open channel.
func NewClientWithChannel(ch Channel, logger *zap.Logger) (*Client, error) {
	return newClient(nil, ch, logger)
}

func newClient(conn *amqp.Connection, ch Channel, logger *zap.Logger) (*Client, error) {
	if err := declareStockQueue(ch); err != nil {
		return nil, err
	}
	return &Client{conn: conn, channel: ch, logger: logger}, nil
}

func declareStockQueue(ch Channel) error {
	_, err := ch.QueueDeclare(
		StockEventsQueue, // name
		true,             // durable
		false,            // delete when unused
		false,            // exclusive
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", StockEventsQueue, err)
	}
	return nil
}

// Close closes the channel and, when owned, the connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Publish sends a persistent JSON message.
func (c *Client) Publish(exchange, routingKey string, body []byte) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available")
	}
	err := c.channel.Publish(
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// PublishStockEvent sends event to StockEventsQueue through the default
// exchange.
func (c *Client) PublishStockEvent(event models.StockEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal stock event: %w", err)
	}
	if err := c.Publish("", StockEventsQueue, body); err != nil {
		return err
	}
	c.logger.Debug("stock event published",
		zap.String("event_id", event.ID),
		zap.Int("product_id", event.ProductID),
		zap.String("kind", string(event.Kind)))
	return nil
}

// StockEventHandler processes one decoded stock event.
type StockEventHandler func(event models.StockEvent) error

// ConsumeStockEvents registers a consumer and processes deliveries in a
// goroutine until the channel closes. Deliveries are acked when handler
// succeeds. Handler errors requeue the delivery; undecodable bodies are
// dropped.
func (c *Client) ConsumeStockEvents(handler StockEventHandler) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		StockEventsQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("waiting for stock events", zap.String("queue", StockEventsQueue))
	go func() {
		for msg := range msgs {
			c.handleDelivery(msg, handler)
		}
		c.logger.Info("stock event consumer stopped")
	}()
	return nil
}

func (c *Client) handleDelivery(msg amqp.Delivery, handler StockEventHandler) {
	var event models.StockEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.logger.Error("dropping undecodable stock event", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(err))
		if nackErr := msg.Nack(false, false); nackErr != nil {
			c.logger.Error("failed to nack message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(nackErr))
		}
		return
	}

	if err := handler(event); err != nil {
		c.logger.Warn("stock event handler failed, requeueing",
			zap.Uint64("delivery_tag", msg.DeliveryTag),
			zap.String("event_id", event.ID),
			zap.Error(err))
		if nackErr := msg.Nack(false, true); nackErr != nil {
			c.logger.Error("failed to nack message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(nackErr))
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		c.logger.Error("failed to ack message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(ackErr))
	}
}
