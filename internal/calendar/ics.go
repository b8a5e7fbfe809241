package calendar

import (
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/newwestevents/events-backend/internal/event"
)

const uidDomain = "newwestevents"

// dtStart renders the event's date and time as a floating local timestamp,
// e.g. 20260601T090000. No timezone conversion: the event happens at that
// wall-clock time wherever the reader is.
func dtStart(e *event.Event) string {
	return e.EventDate.Format("20060102") + "T" + strings.ReplaceAll(e.EventTime, ":", "") + "00"
}

// Build assembles an iCalendar document with one VEVENT per event.
func Build(events []event.Event, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetProductId("-//New West Events//Community Calendar//EN")
	cal.SetMethod(ical.MethodPublish)

	for i := range events {
		addVEvent(cal, &events[i], now)
	}

	return cal.Serialize()
}

// Property values are passed raw: the library applies RFC 5545 text escaping
// (backslash, comma, semicolon, newline) once, on Serialize.
func addVEvent(cal *ical.Calendar, e *event.Event, now time.Time) {
	ve := cal.AddEvent(e.UID + "@" + uidDomain)
	ve.SetDtStampTime(now)
	ve.SetProperty(ical.ComponentPropertyDtStart, dtStart(e))
	ve.SetProperty(ical.ComponentPropertySummary, e.Title)
	if e.Description != "" {
		ve.SetProperty(ical.ComponentPropertyDescription, e.Description)
	}
	if e.Location != "" {
		ve.SetProperty(ical.ComponentPropertyLocation, e.Location)
	}
	if e.Link != "" {
		ve.SetProperty(ical.ComponentPropertyUrl, e.Link)
	}
}
