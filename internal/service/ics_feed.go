package service

import (
	"fmt"
	"io"
	"math"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"einsatzplan/internal/dto"
	"einsatzplan/internal/model"
	"einsatzplan/pkg/shifttime"
)

const icsProductID = "-//einsatzplan//Dienstplan//DE"

// WriteAssignmentsICS renders assignments as an iCalendar feed. Shift times
// are wall clock in loc; an end before the start falls on the next day.
// Assignments without times become all-day events.
func WriteAssignmentsICS(w io.Writer, owner string, list []dto.AssignmentResponse, loc *time.Location, stamp time.Time) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName("Dienstplan " + owner)
	cal.SetXWRTimezone(loc.String())

	for _, a := range list {
		day, err := time.ParseInLocation(model.DateLayout, a.Date, loc)
		if err != nil {
			return fmt.Errorf("ics: %w", err)
		}

		ev := cal.AddEvent(assignmentUID(a))
		ev.SetDtStampTime(stamp)
		ev.SetSummary(a.SiteName + " " + a.SlotLabel)
		ev.SetLocation(a.SiteName)
		brk, hours := a.BreakHours, a.Hours
		ev.SetDescription(fmt.Sprintf("Pause %s h, %s h", decimalText(&brk), decimalText(&hours)))

		start, end := shifttime.ParseTime(a.Start), shifttime.ParseTime(a.End)
		if start == 0 && end == 0 {
			ev.SetAllDayStartAt(day)
			ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
			continue
		}
		win := shifttime.NewWindow(start, end)
		ev.SetStartAt(atFraction(day, win.Start))
		ev.SetEndAt(atFraction(day, win.End))
	}

	return cal.SerializeTo(w)
}

// atFraction is midnight of day plus a fractional-day offset, which may
// exceed one day for shifts past midnight.
func atFraction(day time.Time, frac float64) time.Time {
	mins := int(math.Round(frac * 24 * 60))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, mins, 0, 0, day.Location())
}

// assignmentUID stays the same for a cell across feed refreshes.
func assignmentUID(a dto.AssignmentResponse) string {
	key := a.Date + "|" + a.SiteID + "|" + a.SlotLabel
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String() + "@einsatzplan"
}
