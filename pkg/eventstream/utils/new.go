package utils

import (
	"fmt"

	"github.com/papercomputeco/persona/pkg/eventstream"
	"github.com/papercomputeco/persona/pkg/eventstream/kafka"
	"github.com/papercomputeco/persona/pkg/eventstream/nop"
)

// NewPublisher creates an eventstream publisher for the configured provider.
func NewPublisher(provider string, brokers []string, topic string) (eventstream.Publisher, error) {
	switch provider {
	case "", "nop":
		return nop.NewPublisher(), nil
	case "kafka":
		if len(brokers) == 0 {
			return nil, fmt.Errorf("kafka publisher requires at least one broker")
		}
		if topic == "" {
			return nil, fmt.Errorf("kafka publisher requires a topic")
		}
		return kafka.NewPublisher(brokers, topic), nil
	default:
		return nil, fmt.Errorf("unknown eventstream provider: %s", provider)
	}
}
