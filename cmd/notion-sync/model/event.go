package model

import (
	"time"

	"notion-sync-backend/cmd/notion-sync/notion"
)

// StatusCancelled marks source pages that must never reach the events table.
const StatusCancelled = "Cancelled"

// Event mirrors one Notion event page into the relational store. The table
// is a read replica: every column except id is rewritten on every sync.
//
// Sentinels carried over from the consumer contract:
//   - Day == 0 means multi-day or undated; only Month/Year are meaningful
//     and all hour/minute fields are zero.
//   - Link is a tri-state string: "0" no registration, "1" registration
//     without a URL, "2" in-app club form, anything else is the literal URL.
//   - CalendarLink "NONE" means no calendar entry.
type Event struct {
	ID            int     `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Name          string  `gorm:"column:name" json:"name"`
	Emoji         string  `gorm:"column:emoji" json:"emoji"`
	Description   string  `gorm:"column:description" json:"description"`
	Location      string  `gorm:"column:location" json:"location"`
	Type          string  `gorm:"column:type" json:"type"`
	Organization  *string `gorm:"column:organization" json:"organization,omitempty"`
	Day           int     `gorm:"column:day" json:"day"`
	Month         int     `gorm:"column:month" json:"month"`
	Year          int     `gorm:"column:year" json:"year"`
	StartHour     int     `gorm:"column:start_hour" json:"start_hour"`
	StartMinute   int     `gorm:"column:start_minute" json:"start_minute"`
	EndHour       int     `gorm:"column:end_hour" json:"end_hour"`
	EndMinute     int     `gorm:"column:end_minute" json:"end_minute"`
	Price         float64 `gorm:"column:price" json:"price"`
	Link          string  `gorm:"column:link" json:"link"`
	CalendarLink  string  `gorm:"column:calendar_link" json:"calendar_link"`
	IsCpsifFunded bool    `gorm:"column:is_cpsif_funded" json:"is_cpsif_funded"`
}

func (m *Event) TableName() string {
	return "events"
}

// Notion property names on the events database.
const (
	evPropID           = "ID"
	evPropName         = "Name"
	evPropStatus       = "Status"
	evPropDescription  = "Description"
	evPropLocation     = "Location"
	evPropType         = "Type"
	evPropOrganization = "Organization"
	evPropDate         = "Date"
	evPropPrice        = "Price"
	evPropRegistration = "Registration"
	evPropRegLink      = "Registration Link"
	evPropCalendarLink = "Calendar Link"
	evPropCpsifFunded  = "CPSIF Funded"
)

// Registration select options driving the Link tri-state.
const (
	regNotRequired = "Not Required"
	regClubForm    = "Club Form"
)

// EventCancelled reports whether the page carries the cancelled status
// marker. Cancelled pages are filtered before mapping, not soft-deleted.
func EventCancelled(p notion.Page) bool {
	return p.Properties[evPropStatus].SelectName() == StatusCancelled
}

// EventFromPage maps a Notion event page onto an Event row. Missing
// fields get placeholders rather than dropping the record.
func EventFromPage(p notion.Page) Event {

	props := p.Properties

	ev := Event{
		Name:         textOr(props[evPropName], "NO NAME"),
		Description:  textOr(props[evPropDescription], "NONE"),
		Location:     textOr(props[evPropLocation], "TBA"),
		Type:         "LESA Event",
		Link:         deriveLink(props),
		CalendarLink: "NONE",
	}

	if id, ok := props[evPropID].NumberValue(); ok {
		ev.ID = int(id)
	}
	if t := props[evPropType].SelectName(); t != "" {
		ev.Type = t
	}
	if org := props[evPropOrganization].PlainText(); org != "" {
		ev.Organization = &org
	}
	if price, ok := props[evPropPrice].NumberValue(); ok {
		ev.Price = price
	}
	if u := props[evPropCalendarLink].URLValue(); u != "" {
		ev.CalendarLink = u
	}
	if p.Icon != nil && p.Icon.Type == "emoji" {
		ev.Emoji = p.Icon.Emoji
	}
	ev.IsCpsifFunded = props[evPropCpsifFunded].Bool()

	ev.Day, ev.Month, ev.Year,
		ev.StartHour, ev.StartMinute,
		ev.EndHour, ev.EndMinute = deriveSchedule(props[evPropDate].Date)

	return ev
}

func textOr(p notion.Property, fallback string) string {
	if s := p.PlainText(); s != "" {
		return s
	}
	return fallback
}

// deriveLink implements the registration tri-state:
//
//	not required        -> "0"
//	club form           -> "2"
//	required, URL set   -> the URL
//	required, no URL    -> "1"
func deriveLink(props map[string]notion.Property) string {
	switch props[evPropRegistration].SelectName() {
	case "", regNotRequired:
		return "0"
	case regClubForm:
		return "2"
	default:
		if u := props[evPropRegLink].URLValue(); u != "" {
			return u
		}
		return "1"
	}
}

// deriveSchedule turns the source date range into the seven temporal
// columns. An absent end, or an end on a different calendar day than the
// start, means multi-day: Day is the 0 sentinel and all times stay zero.
// Calendar days are compared in each instant's own zone, not by elapsed
// time.
func deriveSchedule(d *notion.DateValue) (day, month, year, startHour, startMinute, endHour, endMinute int) {

	if d == nil || d.Start == "" {
		return
	}

	start, err := parseNotionTime(d.Start)
	if err != nil {
		return
	}

	var (
		end    time.Time
		endErr error
	)
	if d.End != "" {
		end, endErr = parseNotionTime(d.End)
	}

	if d.End == "" || endErr != nil || !sameCalendarDay(start, end) {
		month = int(start.Month())
		year = start.Year()
		return
	}

	day = start.Day()
	month = int(start.Month())
	year = start.Year()
	startHour = start.Hour()
	startMinute = start.Minute()
	endHour = end.Hour()
	endMinute = end.Minute()
	return
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// parseNotionTime accepts the two literal forms the date property emits:
// a full RFC 3339 instant or a bare calendar date.
func parseNotionTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
