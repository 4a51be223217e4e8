package ldapattr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// fileTimeEpochOffset is the number of 100ns intervals between
	// 1601-01-01 and 1970-01-01.
	fileTimeEpochOffset = 116444736000000000
	fileTimeTicksPerSec = 10000000

	secondsPerDay = 24 * 60 * 60
	// maxShadowDays keeps days*secondsPerDay and the Unix to internal
	// epoch shift inside int64.
	maxShadowDays = (math.MaxInt64 - 62135596800) / secondsPerDay

	// accountNeverExpires is the largest FILETIME AD stores in accountExpires.
	accountNeverExpires = "9223372036854775807"

	// ppolicyPermanentLock marks an account locked until an administrator
	// clears pwdAccountLockedTime.
	ppolicyPermanentLock = "000001010000Z"
)

var (
	errNegativeFileTime = errors.New("negative FILETIME")
	errShadowOutOfRange = errors.New("shadowExpire out of range")
)

// FileTimeToTime converts a Windows FILETIME to a UTC time. Negative ticks
// are not valid FILETIMEs; use parseFileTime to reject them.
func FileTimeToTime(ticks int64) time.Time {
	d := ticks - fileTimeEpochOffset
	return time.Unix(d/fileTimeTicksPerSec, (d%fileTimeTicksPerSec)*100).UTC()
}

// TimeToFileTime is the inverse of FileTimeToTime at 100ns precision.
func TimeToFileTime(t time.Time) int64 {
	return t.Unix()*fileTimeTicksPerSec + int64(t.Nanosecond())/100 + fileTimeEpochOffset
}

func parseFileTime(s string) (int64, error) {
	ticks, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse FILETIME %q: %w", s, err)
	}
	if ticks < 0 {
		return 0, fmt.Errorf("parse FILETIME %q: %w", s, errNegativeFileTime)
	}
	return ticks, nil
}

// shadowDaysToTime converts shadowExpire (days since the Unix epoch).
// Callers handle negative days.
func shadowDaysToTime(days int64) (time.Time, error) {
	if days > maxShadowDays {
		return time.Time{}, fmt.Errorf("%d days: %w", days, errShadowOutOfRange)
	}
	return time.Unix(days*secondsPerDay, 0).UTC(), nil
}
