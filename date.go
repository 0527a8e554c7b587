package fatnav

import (
	"time"
)

// dosTimestamp combines the date and time stamps of a directory entry.
//
// The date counts from the MS-DOS epoch 01/01/1980:
//  Bits 0–4: Day of month, 1-31.
//  Bits 5–8: Month of year, 1-12.
//  Bits 9–15: Count of years from 1980, 0-127 (1980–2107).
// The time has a granularity of 2 seconds:
//  Bits 0–4: 2-second count, 0–29 (0 – 58 seconds).
//  Bits 5–10: Minutes, 0–59.
//  Bits 11–15: Hours, 0–23.
//
// A day or month of 0 is invalid, time.Time{} is returned in that case so that time.Time.IsZero() can be used.
// Out of range time values are clamped to 23:59:58, out of range months roll over into the next year.
func dosTimestamp(date, clock uint16) time.Time {
	day := int(date & 0x1F)
	month := int(date & 0x1E0 >> 5)
	year := 1980 + int(date&0xFE00>>9)

	if day == 0 || month == 0 {
		return time.Time{}
	}

	seconds := int(clock&0x1F) * 2
	minutes := int(clock & 0x7E0 >> 5)
	hours := int(clock & 0xF800 >> 11)
	if hours > 23 || minutes > 59 || seconds > 59 {
		hours, minutes, seconds = 23, 59, 58
	}

	return time.Date(year, time.Month(month), day, hours, minutes, seconds, 0, time.UTC)
}
