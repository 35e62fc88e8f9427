package dispatch

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Publisher pushes notification events to an external broker. Delivery is
// best-effort; callers log failures and carry on.
type Publisher interface {
	Publish(routingKey string, event Event) error
	Close() error
}

// Event is the wire payload published for each notification
type Event struct {
	UserID    string    `json:"user_id,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// AMQPPublisher publishes notification events to a RabbitMQ topic exchange
type AMQPPublisher struct {
	conn     *amqp091.Connection
	exchange string
}

// NewAMQPPublisher connects to the broker and declares the topic exchange
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &AMQPPublisher{conn: conn, exchange: exchange}, nil
}

// Publish sends one event with the given routing key
func (p *AMQPPublisher) Publish(routingKey string, event Event) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return ch.Publish(
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    event.CreatedAt,
			Body:         body,
		},
	)
}

// Close closes the broker connection
func (p *AMQPPublisher) Close() error {
	return p.conn.Close()
}
