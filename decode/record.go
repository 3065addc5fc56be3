package decode

import (
	"errors"
	"math"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

// recordInterpreter decodes the block-record wire schema:
//
//	message Block {
//	    repeated Series series = 1;
//	    int64 min_time = 2;
//	    int64 max_time = 3;
//	}
//	message Series {
//	    string metric = 1;
//	    repeated Label labels = 2;   // Label: name = 1, value = 2
//	    repeated Sample samples = 3; // Sample: timestamp = 1, value = 2 (double)
//	}
//
// The walk is strict: an unknown field number, a wrong wire type, a
// truncated varint, or an invalid UTF-8 string all reject the buffer.
// Strictness is what keeps this probe safe as the first link in the
// chain; loose parsing would claim buffers that belong to later
// interpreters.
type recordInterpreter struct{}

var errRecordShape = errors.New("decode: buffer does not match record schema")

func (recordInterpreter) Tag() Tag { return TagRecord }

func (recordInterpreter) Attempt(in Input) (any, bool) {
	block, err := parseBlock(in.Bytes)
	if err != nil {
		return nil, false
	}
	return block, true
}

func parseBlock(b []byte) (map[string]any, error) {
	if len(b) == 0 {
		return nil, errRecordShape
	}

	series := []any{}
	block := map[string]any{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			s, err := parseSeries(v)
			if err != nil {
				return nil, err
			}
			series = append(series, s)
			b = b[n:]
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			block["minTime"] = int64(v)
			b = b[n:]
		case num == 3 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			block["maxTime"] = int64(v)
			b = b[n:]
		default:
			return nil, errRecordShape
		}
	}

	block["series"] = series
	return block, nil
}

func parseSeries(b []byte) (map[string]any, error) {
	labels := map[string]any{}
	samples := []any{}
	s := map[string]any{"metric": ""}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			if !utf8.Valid(v) {
				return nil, errRecordShape
			}
			s["metric"] = string(v)
			b = b[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			name, value, err := parseLabel(v)
			if err != nil {
				return nil, err
			}
			labels[name] = value
			b = b[n:]
		case num == 3 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			sample, err := parseSample(v)
			if err != nil {
				return nil, err
			}
			samples = append(samples, sample)
			b = b[n:]
		default:
			return nil, errRecordShape
		}
	}

	s["labels"] = labels
	s["samples"] = samples
	return s, nil
}

func parseLabel(b []byte) (name, value string, err error) {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return "", "", protowire.ParseError(n)
		}
		b = b[n:]

		if typ != protowire.BytesType || (num != 1 && num != 2) {
			return "", "", errRecordShape
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return "", "", protowire.ParseError(n)
		}
		if !utf8.Valid(v) {
			return "", "", errRecordShape
		}
		if num == 1 {
			name = string(v)
		} else {
			value = string(v)
		}
		b = b[n:]
	}
	return name, value, nil
}

func parseSample(b []byte) (map[string]any, error) {
	sample := map[string]any{"timestamp": int64(0), "value": float64(0)}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			sample["timestamp"] = int64(v)
			b = b[n:]
		case num == 2 && typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			sample["value"] = math.Float64frombits(v)
			b = b[n:]
		default:
			return nil, errRecordShape
		}
	}
	return sample, nil
}
