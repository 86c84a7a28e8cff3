package codec

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
)

// DynamicSchema mirrors the JSON schema objects the node returns from
// app:getSchema. Deployments may register different account/block layouts,
// so these are decoded at runtime rather than compiled in.
type DynamicSchema struct {
	ID         string                    `json:"$id"`
	Type       string                    `json:"type"`
	DataType   string                    `json:"dataType"`
	FieldNum   int                       `json:"fieldNumber"`
	Properties map[string]*DynamicSchema `json:"properties"`
	Items      *DynamicSchema            `json:"items"`
}

// ParseSchema decodes a schema document fetched from the node.
func ParseSchema(raw json.RawMessage) (*DynamicSchema, error) {
	var s DynamicSchema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	return &s, nil
}

// DecodeJSON decodes wire data against a runtime schema into a JSON-friendly
// map: bytes become hex strings, uint64 becomes a decimal string (it may not
// fit a JSON number), uint32/bool/string keep their natural representation.
// This mirrors the decode step every query response goes through.
func DecodeJSON(s *DynamicSchema, data []byte) (map[string]interface{}, error) {
	if s == nil || s.Type != "object" {
		return nil, fmt.Errorf("codec: schema root must be an object")
	}
	return decodeObject(s, data)
}

func decodeObject(s *DynamicSchema, data []byte) (map[string]interface{}, error) {
	byNumber := make(map[int]string, len(s.Properties))
	for name, prop := range s.Properties {
		byNumber[prop.FieldNum] = name
	}

	out := make(map[string]interface{}, len(s.Properties))
	r := NewReader(data)
	for r.More() {
		f, err := r.Next()
		if err != nil {
			return nil, err
		}
		name, ok := byNumber[f.Number]
		if !ok {
			// Unknown field numbers are skipped for forward compatibility.
			continue
		}
		prop := s.Properties[name]
		v, err := decodeValue(prop, f)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		if prop.Type == "array" {
			existing, _ := out[name].([]interface{})
			out[name] = append(existing, v)
		} else {
			out[name] = v
		}
	}
	return out, nil
}

func decodeValue(prop *DynamicSchema, f Field) (interface{}, error) {
	elem := prop
	if prop.Type == "array" {
		if prop.Items == nil {
			return nil, fmt.Errorf("array schema without items")
		}
		elem = prop.Items
	}

	if elem.Type == "object" {
		if !f.IsData {
			return nil, fmt.Errorf("expected embedded object, got varint")
		}
		return decodeObject(elem, f.Data)
	}

	switch elem.DataType {
	case "string":
		if !f.IsData {
			return nil, fmt.Errorf("expected string, got varint")
		}
		return string(f.Data), nil
	case "bytes":
		if !f.IsData {
			return nil, fmt.Errorf("expected bytes, got varint")
		}
		return hex.EncodeToString(f.Data), nil
	case "uint64":
		if f.IsData {
			return nil, fmt.Errorf("expected uint64, got bytes")
		}
		return strconv.FormatUint(f.Varint, 10), nil
	case "uint32":
		if f.IsData {
			return nil, fmt.Errorf("expected uint32, got bytes")
		}
		return uint32(f.Varint), nil
	case "boolean":
		if f.IsData {
			return nil, fmt.Errorf("expected boolean, got bytes")
		}
		return f.Varint != 0, nil
	default:
		return nil, fmt.Errorf("unsupported dataType %q", elem.DataType)
	}
}
