package validator

import "sort"

// AutoFix is a text insertion that can be applied without review.
type AutoFix struct {
	// Offset is the byte offset to insert at.
	Offset  uint
	NewText string
	Reason  string
}

// ApplyFixes inserts every fix into code. Fixes at the same offset keep
// their order.
func ApplyFixes(code string, fixes []AutoFix) string {
	sorted := make([]AutoFix, len(fixes))
	copy(sorted, fixes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Offset > sorted[j].Offset })

	out := code
	for i := 0; i < len(sorted); {
		// Group equal offsets so their texts land in original order.
		j, text := i, ""
		for ; j < len(sorted) && sorted[j].Offset == sorted[i].Offset; j++ {
			text += sorted[j].NewText
		}
		off := int(sorted[i].Offset)
		if off <= len(out) {
			out = out[:off] + text + out[off:]
		}
		i = j
	}
	return out
}
