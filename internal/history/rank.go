// Package history orders and summarises rental histories for account pages.
package history

import "github.com/thomhuang/happycamper/internal/model"

// Rank returns the histories ordered by submission time, latest first. It is
// a top-down merge sort; histories submitted at the same instant keep their
// input order. The input slice is left untouched.
func Rank(histories []model.RentalHistory) []model.RentalHistory {
	ranked := make([]model.RentalHistory, len(histories))
	copy(ranked, histories)
	mergeSort(ranked)
	return ranked
}

func mergeSort(lst []model.RentalHistory) {
	if len(lst) < 2 {
		return
	}

	mid := len(lst) / 2
	left := append([]model.RentalHistory(nil), lst[:mid]...)
	right := append([]model.RentalHistory(nil), lst[mid:]...)

	mergeSort(left)
	mergeSort(right)

	// write the merged halves back over lst, later submissions first
	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		if right[j].SubmittedAt.After(left[i].SubmittedAt) {
			lst[k] = right[j]
			j++
		} else {
			lst[k] = left[i]
			i++
		}
		k++
	}

	k += copy(lst[k:], left[i:])
	copy(lst[k:], right[j:])
}
