package projector

import "hash/fnv"

// palette is the fixed set of cursor colors. Assignment is a pure hash of
// the user ID, so a user keeps one color for a whole session without any
// server-assigned color field.
var palette = []string{
	"#e06c75",
	"#61afef",
	"#98c379",
	"#c678dd",
	"#e5c07b",
	"#56b6c2",
	"#d19a66",
	"#abb2bf",
}

// ColorFor returns the palette color for a user ID. Deterministic: the same
// ID always maps to the same color.
func ColorFor(userID string) string {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return palette[h.Sum32()%uint32(len(palette))]
}
