package view

import (
	"strings"
	"sync/atomic"
	"time"
	_ "time/tzdata"

	ptime "github.com/yaa110/go-persian-calendar"
)

// Tehran is Iran Standard Time. Iran has not observed daylight saving since 2022.
var Tehran = time.FixedZone("IRST", 3*60*60+30*60)

var displayLocation atomic.Pointer[time.Location]

func init() {
	displayLocation.Store(Tehran)
}

var persianDigits = strings.NewReplacer(
	"0", "۰", "1", "۱", "2", "۲", "3", "۳", "4", "۴",
	"5", "۵", "6", "۶", "7", "۷", "8", "۸", "9", "۹",
)

// LoadLocation resolves a configured display time zone. An empty name is Tehran.
func LoadLocation(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return Tehran, nil
	}
	return time.LoadLocation(name)
}

// SetLocation changes the zone DisplayDate takes the calendar day in
func SetLocation(loc *time.Location) {
	if loc != nil {
		displayLocation.Store(loc)
	}
}

// DisplayDate renders a stored createdAt value as a fa-IR calendar date
// (yyyy/mm/dd with Persian digits) on the local day of the display location.
// Unparseable input yields "".
func DisplayDate(createdAt string) string {
	return DisplayDateIn(createdAt, displayLocation.Load())
}

// DisplayDateIn is DisplayDate for an explicit location
func DisplayDateIn(createdAt string, loc *time.Location) string {
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return ""
	}
	return FormatJalali(t.In(loc))
}

// FormatJalali formats t's own calendar day in the Solar Hijri calendar with Persian digits
func FormatJalali(t time.Time) string {
	return persianDigits.Replace(ptime.New(t).Format("yyyy/MM/dd"))
}
