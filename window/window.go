package window

import "github.com/olegtaranenko/nanobuffer/ring"

// Mean returns the integer mean of the values held by r. Absent slots are
// skipped.
func Mean(r *ring.Ring[int]) int {
	m, _ := mean(r)
	return m
}

func mean(r *ring.Ring[int]) (int, int) {
	sum, count := 0, 0

	for n, ok := range r.All() {
		if ok {
			sum += n
			count++
		}
	}

	if count > 0 {
		return sum / count, count
	}
	return 0, 0
}

// Given a ring of recent observations, determine if a Change
// Indicator should be generated for latest.
//
// For each 10x over the mean the latest item is, we add a single plus
// sign up to 3.
//
// For each 10x under the mean the latest item is, we add a single
// minus sign up to 3.
//
// Otherwise, or when the history holds nothing, we return no change
// indicator.
func CalculateChangeIndicator(history *ring.Ring[int], latest int) string {
	mad, count := mean(history)
	if count == 0 {
		return ""
	}

	switch {
	case latest >= mad*1000:
		return "+++"
	case latest >= mad*100:
		return "++"
	case latest >= mad*10:
		return "+"
	case latest <= mad/1000:
		return "---"
	case latest <= mad/100:
		return "--"
	case latest <= mad/10:
		return "-"
	}
	return ""
}
