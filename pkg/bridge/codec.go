package bridge

import "encoding/json"

// MessageCodec encodes and decodes payloads for hosts that move state
// across a process or language boundary. Payloads exchanged in-process
// never pass through a codec.
type MessageCodec interface {
	// Encode converts a payload to bytes for transmission.
	Encode(value any) ([]byte, error)

	// Decode converts received bytes back to a payload value.
	Decode(data []byte) (any, error)
}

// JsonCodec implements MessageCodec using JSON encoding.
// JSON prioritizes interoperability and minimal native dependencies.
type JsonCodec struct{}

// Encode serializes the value to JSON bytes.
func (c JsonCodec) Encode(value any) ([]byte, error) {
	return json.Marshal(value)
}

// Decode deserializes JSON bytes to a Go value.
func (c JsonCodec) Decode(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DefaultCodec is the codec used when a host does not supply its own.
var DefaultCodec MessageCodec = JsonCodec{}
