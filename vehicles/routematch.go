package vehicles

import (
	"fmt"
	"strconv"
	"strings"
)

// routeMatchesLine decides whether a GTFS-RT route id corresponds to a
// rider-visible line number. The feed carries no canonical mapping, so
// this is a best-effort heuristic; false positives and negatives are an
// accepted tradeoff. Kept as a single function so mismatch reports can be
// fixed without touching the feed client.
//
//   - exact equality
//   - numeric line zero-padded to 3 digits as a route id suffix
//     ("65" matches "1065" and "2065", not "165")
//   - lines of length >= 3 as a verbatim suffix
//   - lines containing an uppercase letter by case-insensitive
//     containment ("M1" matches "31M1")
func routeMatchesLine(routeID, lineRef string) bool {
	if routeID == "" || lineRef == "" {
		return false
	}
	if routeID == lineRef {
		return true
	}
	if n, err := strconv.Atoi(lineRef); err == nil {
		if strings.HasSuffix(routeID, fmt.Sprintf("%03d", n)) {
			return true
		}
	}
	if len(lineRef) >= 3 && strings.HasSuffix(routeID, lineRef) {
		return true
	}
	if strings.ToLower(lineRef) != lineRef {
		if strings.Contains(strings.ToLower(routeID), strings.ToLower(lineRef)) {
			return true
		}
	}
	return false
}
