package thumbnail

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// offsetRegex matches [HH:]MM:SS[.fraction]
var offsetRegex = regexp.MustCompile(`^(?:(\d+):)?(\d{1,2}):(\d{2})(?:\.(\d{1,3}))?$`)

// ParseOffset converts a frame position to milliseconds. It accepts a plain
// millisecond count ("1500") or a clock form ("01:02:03.250", "02:03").
func ParseOffset(s string) (int, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.Atoi(s); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("%w: offset %q is negative", ErrInvalidArgument, s)
		}
		return ms, nil
	}

	m := offsetRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: invalid offset %q: expected milliseconds or HH:MM:SS[.mmm]", ErrInvalidArgument, s)
	}

	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	if minutes > 59 || seconds > 59 {
		return 0, fmt.Errorf("%w: invalid offset %q: minutes and seconds must be 0-59", ErrInvalidArgument, s)
	}

	// ".5" is half a second, not five milliseconds
	millis := 0
	if m[4] != "" {
		frac := m[4] + strings.Repeat("0", 3-len(m[4]))
		millis, _ = strconv.Atoi(frac)
	}

	return ((hours*60+minutes)*60+seconds)*1000 + millis, nil
}

// FormatOffset renders milliseconds as HH:MM:SS.mmm
func FormatOffset(ms int) string {
	return fmt.Sprintf("%02d:%02d:%02d.%03d", ms/3_600_000, ms/60_000%60, ms/1000%60, ms%1000)
}
