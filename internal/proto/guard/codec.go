package guard

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype of the JSON codec.
const CodecName = "json"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec marshals messages as JSON, selected by clients with
// grpc.CallContentSubtype(CodecName).
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json codec: marshal %T: %w", v, err)
	}
	return b, nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json codec: unmarshal %T: %w", v, err)
	}
	return nil
}

func (Codec) Name() string { return CodecName }
