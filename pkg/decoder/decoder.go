package decoder

import (
	"encoding/json"
	"fmt"
)

// DecodeMap converts a generic JSON object, such as one decoded with
// UseNumber, into T. Fields that T does not declare are dropped.
func DecodeMap[T any](m map[string]any) (T, error) {
	var out T

	b, err := json.Marshal(m)
	if err != nil {
		return out, fmt.Errorf("failed to marshal map: %w", err)
	}

	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("failed to decode map: %w", err)
	}

	return out, nil
}
