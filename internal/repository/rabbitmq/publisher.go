package rabbitmq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/domain/entity"
	"github.com/stivencardonauniandes/anb-rising-stars-showcase/pkg/utils"
)

type TaskPublisher struct {
	channel    *amqp.Channel
	exchange   string
	routingKey string
}

func NewTaskPublisher(conn *amqp.Connection, exchange, routingKey string) (*TaskPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true, // durable
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &TaskPublisher{
		channel:    ch,
		exchange:   exchange,
		routingKey: routingKey,
	}, nil
}

func (p *TaskPublisher) Publish(ctx context.Context, task entity.TaskMessage) error {
	body, err := utils.ToRawMessage(task)
	if err != nil {
		return err
	}

	return p.channel.PublishWithContext(ctx,
		p.exchange,
		p.routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   task.TaskID,
			Body:        body,
		},
	)
}
