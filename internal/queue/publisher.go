package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher 将消息以 JSON 形式投递到 RabbitMQ 的默认交换机
type Publisher struct {
	ch      *amqp.Channel
	timeout time.Duration
}

func NewPublisher(ch *amqp.Channel, timeout time.Duration) *Publisher {
	return &Publisher{
		ch:      ch,
		timeout: timeout,
	}
}

// Publish 每条消息带有唯一的 MessageId，方便在日志中追踪
func (p *Publisher) Publish(ctx context.Context, queue string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.ch.PublishWithContext(
		ctx,
		"",
		queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

// Declare 声明持久化的队列，api 和各个 worker 启动时都会调用
func Declare(ch *amqp.Channel, names ...string) error {
	for _, name := range names {
		if _, err := ch.QueueDeclare(
			name,  // 队列名称
			true,  // 是否持久化
			false, // 是否自动删除
			false, // 是否独占
			false, // 是否不等待
			nil,   // 额外参数
		); err != nil {
			return err
		}
	}
	return nil
}
