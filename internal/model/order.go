package model

// NextOrderIndex returns the position for an item appended to a group:
// one past the largest existing index, or 0 for an empty group.
// Gaps left by deletions are never closed.
func NextOrderIndex(existing ...int) int {
	highest := -1
	for _, idx := range existing {
		if idx > highest {
			highest = idx
		}
	}
	return highest + 1
}
