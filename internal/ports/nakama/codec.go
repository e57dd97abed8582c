package nakama

import (
	"strconv"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// encodePayload renders fields as a JSON object through structpb so every
// payload on the wire goes through the same protobuf JSON mapping.
func encodePayload(fields map[string]interface{}) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	return protojson.Marshal(s)
}

// decodePayload parses a JSON object sent by a client. An empty payload decodes to an empty struct.
func decodePayload(data []byte) (*structpb.Struct, error) {
	s := &structpb.Struct{}
	if len(data) == 0 {
		return s, nil
	}
	if err := protojson.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

// stringField returns a string or number field as text.
func stringField(s *structpb.Struct, key string) string {
	v, ok := s.GetFields()[key]
	if !ok {
		return ""
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatInt(int64(kind.NumberValue), 10)
	default:
		return ""
	}
}

// buildLabel renders the match label used by match listing queries.
func buildLabel(participants int, hasWarden bool) (string, error) {
	label, err := structpb.NewStruct(map[string]interface{}{
		"game":    GameLabel,
		"open":    participants < MaxParticipants,
		"players": participants,
		"warden":  hasWarden,
	})
	if err != nil {
		return "", err
	}
	b, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
