package publish

import (
	"encoding/json"
	"fmt"

	"github.com/umati-tools/machineid-publisher/pkg/mqtt"
)

// WrapperKey is the field name a machine record may be nested under
const WrapperKey = "MachineIdentificationType"

// ResolveBody computes the bytes to publish for a payload on a topic.
//
// When the topic's final segment is the wrapper key and the payload carries
// a top-level object under that same key, the wrapper is stripped and only
// the inner record is serialized. In every other case, including a wrapper
// key whose value is not an object, the payload is serialized unchanged.
// The input payload is never mutated.
func ResolveBody(topic string, payload map[string]interface{}) ([]byte, error) {
	if mqtt.LastSegment(topic) == WrapperKey {
		if inner, ok := payload[WrapperKey].(map[string]interface{}); ok {
			body, err := json.Marshal(inner)
			if err != nil {
				return nil, fmt.Errorf("failed to serialize unwrapped payload: %w", err)
			}
			return body, nil
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize payload: %w", err)
	}
	return body, nil
}
