package extract

import (
	"regexp"
	"strconv"
)

// DefaultScore is substituted by callers when no score can be recovered
// from the final interview reply.
const DefaultScore = 80.0

var (
	scoreOutOf100 = regexp.MustCompile(`(\d+)\s*/\s*100`)
	scoreOutOf10  = regexp.MustCompile(`(\d+)\s*/\s*10`)
)

// Score recovers a 0-100 score from free text. An "n / 100" pattern wins;
// otherwise "n / 10" is scaled by ten. The boolean reports whether a score
// was actually found; callers decide whether to substitute DefaultScore,
// so a genuine extraction miss stays distinguishable from a real 80.
func Score(reply string) (float64, bool) {
	if m := scoreOutOf100.FindStringSubmatch(reply); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return float64(n), true
		}
	}
	if m := scoreOutOf10.FindStringSubmatch(reply); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return float64(n) * 10, true
		}
	}
	return 0, false
}
