package record

// Sort performs a stable multi-key sort over records according to order,
// applying one full stable pass per tag in order (lowest priority first),
// so the last tag dominates. Zero-valued (TagNone) slots are
// skipped. asc multiplies every comparator result; asc=false reverses the
// final order.
func Sort(records []*Record, order OrderVector, asc bool) {
	mul := 1
	if !asc {
		mul = -1
	}
	for _, tag := range order {
		if tag == TagNone {
			continue
		}
		mergeSort(records, func(a, b *Record) int {
			return mul * compare(tag, a, b)
		})
	}
}

// mergeSort performs a stable bottom-up merge sort of records in place,
// using a single scratch array sized to match, freed when the sort
// completes: a scratch array sized to the input is allocated per sort and
// freed at the end rather than kept around between calls.
func mergeSort(records []*Record, less func(a, b *Record) int) {
	n := len(records)
	if n < 2 {
		return
	}
	scratch := make([]*Record, n)
	for width := 1; width < n; width *= 2 {
		for lo := 0; lo < n; lo += 2 * width {
			mid := lo + width
			if mid > n {
				mid = n
			}
			hi := lo + 2*width
			if hi > n {
				hi = n
			}
			merge(records, scratch, lo, mid, hi, less)
		}
	}
}

// merge merges the two sorted runs records[lo:mid] and records[mid:hi]
// into scratch, then copies the result back into records, preferring the
// left run on ties to keep the sort stable.
func merge(records, scratch []*Record, lo, mid, hi int, less func(a, b *Record) int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if less(records[i], records[j]) <= 0 {
			scratch[k] = records[i]
			i++
		} else {
			scratch[k] = records[j]
			j++
		}
		k++
	}
	for i < mid {
		scratch[k] = records[i]
		i++
		k++
	}
	for j < hi {
		scratch[k] = records[j]
		j++
		k++
	}
	copy(records[lo:hi], scratch[lo:hi])
}
