package mqtt

import (
	"fmt"
	"strings"
)

// ValidatePublishTopic checks that a topic is legal for publishing.
// Wildcard characters are only meaningful in subscription filters; a
// publish to a topic containing them is rejected by most brokers.
func ValidatePublishTopic(topic string) error {
	if topic == "" {
		return fmt.Errorf("topic must not be empty")
	}
	if strings.ContainsAny(topic, "#+") {
		return fmt.Errorf("topic %q contains wildcard characters", topic)
	}
	return nil
}

// LastSegment returns the final /-separated segment of a topic.
// For a topic without separators this is the topic itself.
func LastSegment(topic string) string {
	if i := strings.LastIndex(topic, "/"); i >= 0 {
		return topic[i+1:]
	}
	return topic
}
