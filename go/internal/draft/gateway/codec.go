package gateway

import "encoding/json"

// JSONCodec lets connect handlers speak plain Go structs. It replaces connect's
// protobuf JSON codec under the same name, so clients send application/json.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
