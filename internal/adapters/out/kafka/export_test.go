package kafka

import (
	"fulfillment/internal/pkg/logger"

	"github.com/segmentio/kafka-go"
)

type MessageWriter = messageWriter

func NewPublisherWithWriter(w MessageWriter, log logger.Logger) *Publisher {
	return newPublisher(w, log)
}

var SplitBrokers = splitBrokers

func (p *Publisher) Completed(msgs []kafka.Message, err error) {
	p.completed(msgs, err)
}
