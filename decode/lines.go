package decode

import "bytes"

// markerWindow is how far into the buffer a content marker may appear.
const markerWindow = 20

// hasMarker reports whether the literal marker occurs within the first
// markerWindow bytes of the buffer. Markers are a cheap classification
// signal, not proof of shape; the interpreters that rely on them stay
// permissive about what follows.
func hasMarker(b []byte, marker string) bool {
	head := b
	if len(head) > markerWindow {
		head = head[:markerWindow]
	}
	return bytes.Contains(head, []byte(marker))
}

// indexInterpreter decodes a line-oriented index table: newline-delimited
// records, each tab-split into key and value.
type indexInterpreter struct{}

func (indexInterpreter) Tag() Tag { return TagIndex }

func (indexInterpreter) Attempt(in Input) (any, bool) {
	if !hasMarker(in.Bytes, "index") {
		return nil, false
	}

	// Rows that do not split into at least two fields (the marker line
	// among them) are skipped, not rejected: a buffer with the marker and
	// no well-formed rows decodes to an empty table. Duplicate keys are
	// last-write-wins.
	table := map[string]any{}
	for _, line := range bytes.Split(in.Bytes, []byte("\n")) {
		fields := bytes.Split(line, []byte("\t"))
		if len(fields) < 2 {
			continue
		}
		table[string(fields[0])] = string(fields[1])
	}
	return table, true
}

// seriesInterpreter decodes a line-oriented series list: every non-empty
// line, the marker line included, becomes one element of the list. No line
// is special-cased away from the split.
type seriesInterpreter struct{}

func (seriesInterpreter) Tag() Tag { return TagSeries }

func (seriesInterpreter) Attempt(in Input) (any, bool) {
	if !hasMarker(in.Bytes, "series") {
		return nil, false
	}

	list := []any{}
	for _, line := range bytes.Split(in.Bytes, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		list = append(list, string(line))
	}
	return map[string]any{"series": list}, true
}
