package mergepager

import (
	"encoding/base64"
	"encoding/json"
)

var _encoder = base64.StdEncoding

// EncodeCursor packs per-source positions into one opaque cursor. Positions
// are index-aligned with the source list handed to a pager.
func EncodeCursor(positions []string) string {
	if positions == nil {
		positions = []string{}
	}

	data, err := json.Marshal(positions)
	if err != nil {
		// A []string always marshals.
		panic(err)
	}

	return _encoder.EncodeToString(data)
}

// DecodeCursor unpacks a cursor produced by EncodeCursor. An empty or
// malformed cursor yields an empty slice, which means "start of every source".
func DecodeCursor(cursor string) []string {
	if len(cursor) == 0 {
		return []string{}
	}

	data, err := _encoder.DecodeString(cursor)
	if err != nil {
		return []string{}
	}

	var positions []string
	if err = json.Unmarshal(data, &positions); err != nil || positions == nil {
		return []string{}
	}

	return positions
}

// positionAt returns the position of source i, or "" if the cursor never
// reached that source.
func positionAt(positions []string, i int) string {
	if i < 0 || i >= len(positions) {
		return ""
	}

	return positions[i]
}

// withPosition sets the position of source i, growing the slice as needed.
func withPosition(positions []string, i int, position string) []string {
	for len(positions) <= i {
		positions = append(positions, "")
	}
	positions[i] = position

	return positions
}
