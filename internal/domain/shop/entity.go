package shop

import "time"

// Shop is the tenant. Every HR record hangs off a shop, and all attendance
// math happens in the shop's local timezone.
type Shop struct {
	ID        string
	Name      string
	Timezone  string // IANA name, e.g. "Asia/Manila"
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ShopHours is the operating window for one weekday. A missing row means the
// shop is closed that day.
type ShopHours struct {
	ID        string
	ShopID    string
	DayOfWeek int // 1=Monday, ..., 7=Sunday
	OpenTime  time.Time
	CloseTime time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location resolves the shop timezone, falling back to UTC on a bad name.
func (s Shop) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ISOWeekday maps time.Weekday to the 1=Monday..7=Sunday convention used by
// shop_hours rows.
func ISOWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}
