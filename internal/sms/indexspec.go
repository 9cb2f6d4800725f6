package sms

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParseIndexSpec parses "0,2,4-6" style input into sorted, unique indices
// within [0, maxIndex]. Bad or out-of-range tokens are dropped and described
// in warnings; they never fail the whole parse. Reversed ranges ("5-3") are
// accepted.
func ParseIndexSpec(spec string, maxIndex int) ([]int, []string) {
	set := make(map[int]struct{})
	var warnings []string

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if strings.Contains(part, "-") {
			start, end, ok := parseRange(part)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("Invalid range '%s' ignored.", part))
				continue
			}
			for i := max(start, 0); i <= min(end, maxIndex); i++ {
				set[i] = struct{}{}
			}
			if start < 0 || end > maxIndex {
				warnings = append(warnings, fmt.Sprintf("Range '%s' exceeds bounds (0-%d); out-of-bounds indices were ignored.", part, maxIndex))
			}
			continue
		}

		index, err := strconv.Atoi(part)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Invalid index '%s' ignored.", part))
			continue
		}
		if index < 0 || index > maxIndex {
			warnings = append(warnings, fmt.Sprintf("Index %d is out of bounds (0-%d) and was ignored.", index, maxIndex))
			continue
		}
		set[index] = struct{}{}
	}

	indices := make([]int, 0, len(set))
	for i := range set {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return indices, warnings
}

func parseRange(part string) (int, int, bool) {
	bounds := strings.Split(part, "-")
	if len(bounds) != 2 {
		return 0, 0, false
	}
	start, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
	if err != nil {
		return 0, 0, false
	}
	end, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
	if err != nil {
		return 0, 0, false
	}
	if start > end {
		start, end = end, start
	}
	return start, end, true
}
