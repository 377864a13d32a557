package progress

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	percentCountPattern = regexp.MustCompile(`(\d+)%\s*\((\d+)/(\d+)\)`)
	speedPattern        = regexp.MustCompile(`(?i)\|\s*([\d.]+)\s*(GiB|MiB|KiB|B)/s`)
	keywordPattern      = regexp.MustCompile(`(?i)\b(total|received|indexed)\b\s*:?\s*(\d+)`)
)

var speedScale = map[string]float64{
	"b":   1.0 / 1024,
	"kib": 1,
	"mib": 1024,
	"gib": 1024 * 1024,
}

// Update holds the fields a single event carried. Nil fields were not present.
type Update struct {
	Stage     Stage
	Received  *int64
	Total     *int64
	Indexed   *int64
	SpeedKBps *float64
}

// Parse extracts whatever structured progress an event carries. It never
// fails: anything that does not parse cleanly is left out of the Update.
func Parse(ev Event) Update {
	u := Update{Stage: ev.Phase.Stage()}
	msg := ev.Message

	if u.Stage == StageReceiving {
		if m := percentCountPattern.FindStringSubmatch(msg); m != nil {
			received, errA := strconv.ParseInt(m[2], 10, 64)
			total, errB := strconv.ParseInt(m[3], 10, 64)
			if errA == nil && errB == nil {
				u.Received = &received
				u.Total = &total
			}
		}
	}

	if m := speedPattern.FindStringSubmatch(msg); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v >= 0 {
			kbps := v * speedScale[strings.ToLower(m[2])]
			u.SpeedKBps = &kbps
		}
	}

	for _, m := range keywordPattern.FindAllStringSubmatch(msg, -1) {
		n, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			continue
		}
		switch strings.ToLower(m[1]) {
		case "total":
			if u.Total == nil {
				u.Total = &n
			}
		case "received":
			if u.Received == nil {
				u.Received = &n
			}
		case "indexed":
			if u.Indexed == nil {
				u.Indexed = &n
			}
		}
	}

	return u
}
