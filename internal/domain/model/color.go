package model

// palette is the fixed set of chart colors players hash into. Order matters:
// the same name must always map to the same color across waves.
var palette = [...]string{
	"#38d4b0", "#3b25a1", "#7dd3fc", "#fca5a5", "#fde68a",
	"#f472b6", "#60a5fa", "#34d399", "#a78bfa", "#f59e0b",
}

// ColorFor deterministically assigns a palette color from a display name.
func ColorFor(name string) string {
	h := int64(nameHash(name))
	if h < 0 {
		h = -h
	}
	return palette[h%int64(len(palette))]
}

// nameHash is a 31-based rolling hash over the name's code points with
// wrapping int32 arithmetic, matching the dashboard's historical assignment.
func nameHash(s string) int32 {
	var h int32
	for _, r := range s {
		h = 31*h + int32(r)
	}
	return h
}
