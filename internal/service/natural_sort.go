package service

import (
	"sort"
	"strings"

	"github.com/maruel/natural"

	"einsatzplan/internal/model"
)

// naturalLess orders labels with embedded numbers by value ("MA2" before
// "MA10"), ignoring case. Labels equal except for case fall back to byte order.
func naturalLess(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return natural.Less(la, lb)
	}
	return a < b
}

// sortSlots orders slots by label naturally, ties by id.
func sortSlots(slots []model.Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Label != slots[j].Label {
			return naturalLess(slots[i].Label, slots[j].Label)
		}
		return slots[i].SlotID < slots[j].SlotID
	})
}
