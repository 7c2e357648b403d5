package core

import (
	"fmt"
	"time"
)

// YearMonth identifies a calendar month (month is 1-12).
type YearMonth struct {
	Year  int
	Month int
}

// MonthOf returns the YearMonth a date falls in.
func MonthOf(d Date) YearMonth {
	return YearMonth{Year: d.Year(), Month: int(d.Time.Month())}
}

// CurrentMonth returns the YearMonth for the current local date.
func CurrentMonth() YearMonth {
	now := time.Now()
	return YearMonth{Year: now.Year(), Month: int(now.Month())}
}

// Add returns the YearMonth offset months away, rolling over year
// boundaries in either direction (January minus one month is December
// of the previous year).
func (ym YearMonth) Add(offset int) YearMonth {
	months := ym.Year*12 + (ym.Month - 1) + offset
	year := months / 12
	month := months%12 + 1
	if months < 0 && months%12 != 0 {
		year--
		month += 12
	}
	return YearMonth{Year: year, Month: month}
}

// Contains reports whether the date falls within the month, first and
// last calendar day inclusive.
func (ym YearMonth) Contains(d Date) bool {
	return d.Year() == ym.Year && int(d.Time.Month()) == ym.Month
}

// IsValid reports whether the month number is in range.
func (ym YearMonth) IsValid() bool {
	return ym.Month >= 1 && ym.Month <= 12
}

// String renders the month as YYYY-MM.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}
