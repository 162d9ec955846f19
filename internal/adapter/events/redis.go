package events

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"

	"github.com/srgjo27/transit_ticket/internal/platform/tracing"
)

const consumerGroupPrefix = "svc-transit."

func NewRedisPublisher(rdb redis.UniversalClient, logger watermill.LoggerAdapter) (message.Publisher, error) {
	var pub message.Publisher
	pub, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: rdb,
	}, logger)
	if err != nil {
		return nil, err
	}

	pub = tracing.PublisherDecorator{Publisher: pub}
	return pub, nil
}

// RedisSubscriberConstructor gives every handler its own consumer group so
// each one sees every event.
func RedisSubscriberConstructor(rdb redis.UniversalClient, logger watermill.LoggerAdapter) cqrs.EventProcessorSubscriberConstructorFn {
	return func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
		return redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        rdb,
			ConsumerGroup: consumerGroupPrefix + params.HandlerName,
		}, logger)
	}
}
