package internal

import (
	"fmt"
	"time"
)

const (
	formatDDMMYYYY = "02.01.2006"
)

func Format(date time.Time) string {
	return date.Format(formatDDMMYYYY)
}

// FormatUnix renders a unix timestamp the way Format renders a time.
func FormatUnix(ts int64) string {
	return Format(time.Unix(ts, 0))
}

// Mention renders a member id as a Telegram markdown mention.
func Mention(memberID string) string {
	return fmt.Sprintf("[member](tg://user?id=%s)", memberID)
}
