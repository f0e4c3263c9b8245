package model

import (
	"database/sql/driver"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"notion-sync-backend/cmd/notion-sync/applog"
	"notion-sync-backend/cmd/notion-sync/notion"
)

// Member is a row of the relational members table, the source of truth
// mirrored into the Notion members database. Matching across stores uses
// StudentNumber, not ID: the internal id is a surrogate the document
// store never sees.
type Member struct {
	ID               int        `gorm:"column:id;primaryKey" json:"id"`
	StudentNumber    int64      `gorm:"column:student_number" json:"student_number"`
	FirstName        string     `gorm:"column:first_name" json:"first_name"`
	LastName         string     `gorm:"column:last_name" json:"last_name"`
	PreferredName    string     `gorm:"column:preferred_name" json:"preferred_name"`
	Email            string     `gorm:"column:email" json:"email"`
	Status           string     `gorm:"column:status" json:"status"`
	Faculty          string     `gorm:"column:faculty" json:"faculty"`
	College          string     `gorm:"column:college" json:"college"`
	Program          string     `gorm:"column:program" json:"program"`
	YearOfStudy      string     `gorm:"column:year_of_study" json:"year_of_study"`
	Country          string     `gorm:"column:country" json:"country"`
	RegistrationDate LegacyTime `gorm:"column:registration_date" json:"registration_date"`
	LastUpdate       LegacyTime `gorm:"column:last_update" json:"last_update"`
}

func (m *Member) TableName() string {
	return "members"
}

// LegacyTime scans the date columns of the members table, which have
// accumulated several representations over the years: real timestamps,
// ISO-ish strings, MySQL zero-dates ("0000-00-00 00:00:00"), empty
// strings, the literal 0, and epoch seconds. Anything zero-ish or
// unparseable scans as absent rather than failing the row.
type LegacyTime struct {
	Time  time.Time
	Valid bool
}

func (t *LegacyTime) Scan(value any) error {

	t.Time = time.Time{}
	t.Valid = false

	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		if v.IsZero() || v.Unix() == 0 {
			return nil
		}
		t.Time = v.UTC()
		t.Valid = true
		return nil
	case []byte:
		t.scanString(string(v))
		return nil
	case string:
		t.scanString(v)
		return nil
	case int64:
		t.scanEpoch(v)
		return nil
	case float64:
		t.scanEpoch(int64(v))
		return nil
	default:
		applog.Warn("legacy date: unsupported source type, treating as absent", "value", value)
		return nil
	}
}

func (t *LegacyTime) scanEpoch(sec int64) {
	if sec == 0 {
		return
	}
	t.Time = time.Unix(sec, 0).UTC()
	t.Valid = true
}

var legacyLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (t *LegacyTime) scanString(s string) {

	s = strings.TrimSpace(s)
	if s == "" || s == "0" || strings.HasPrefix(s, "0000-00-00") {
		return
	}

	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		t.scanEpoch(sec)
		return
	}

	for _, layout := range legacyLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			if parsed.Unix() == 0 {
				return
			}
			t.Time = parsed.UTC()
			t.Valid = true
			return
		}
	}

	applog.Warn("legacy date: unparseable value, treating as absent", "value", s)
}

func (t LegacyTime) Value() (driver.Value, error) {
	if !t.Valid {
		return nil, nil
	}
	return t.Time.UTC(), nil
}

func (t LegacyTime) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.ISO())
}

// ISO renders the normalized instant, or "" when absent. Both the write
// path and the change detector go through this so the two can never
// disagree on formatting.
func (t LegacyTime) ISO() string {
	if !t.Valid {
		return ""
	}
	return t.Time.UTC().Format(time.RFC3339)
}

// EffectiveLastUpdate substitutes the registration date when the member
// was never updated since registering.
func (m Member) EffectiveLastUpdate() string {
	if m.LastUpdate.Valid {
		return m.LastUpdate.ISO()
	}
	return m.RegistrationDate.ISO()
}

// DisplayName is the title of the member's Notion page.
func (m Member) DisplayName() string {
	if m.PreferredName != "" {
		return strings.TrimSpace(m.PreferredName + " " + m.LastName)
	}
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// Notion property names on the members database. PropEventsRegistered is
// owned by the event-registration flow and is never part of a write
// payload here.
const (
	memPropName             = "Name"
	memPropStudentNumber    = "Student Number"
	memPropFirstName        = "First Name"
	memPropLastName         = "Last Name"
	memPropPreferredName    = "Preferred Name"
	memPropEmail            = "Email"
	memPropStatus           = "Status"
	memPropFaculty          = "Faculty"
	memPropCollege          = "College"
	memPropProgram          = "Program"
	memPropYearOfStudy      = "Year of Study"
	memPropCountry          = "Country"
	memPropRegistrationDate = "Registration Date"
	memPropLastUpdate       = "Last Update"

	PropEventsRegistered = "Events Registered"
)

// NotionProperties builds the write payload for this member. Empty
// number/select/date values are omitted entirely instead of being sent
// as nulls, which the API mishandles for select-typed fields. The same
// payload serves insert and update: PropEventsRegistered is never
// included, so updates can never clear it.
func (m Member) NotionProperties() map[string]notion.Property {

	props := map[string]notion.Property{
		memPropName:          notion.TitleProp(m.DisplayName()),
		memPropStudentNumber: notion.NumberProp(float64(m.StudentNumber)),
	}

	setText := func(name, value string) {
		if value != "" {
			props[name] = notion.RichTextProp(value)
		}
	}
	setSelect := func(name, value string) {
		if value != "" {
			props[name] = notion.SelectProp(value)
		}
	}

	setText(memPropFirstName, m.FirstName)
	setText(memPropLastName, m.LastName)
	setText(memPropPreferredName, m.PreferredName)
	setText(memPropProgram, m.Program)

	setSelect(memPropStatus, m.Status)
	setSelect(memPropFaculty, m.Faculty)
	setSelect(memPropCollege, m.College)
	setSelect(memPropYearOfStudy, m.YearOfStudy)
	setSelect(memPropCountry, m.Country)

	if m.Email != "" {
		props[memPropEmail] = notion.EmailProp(m.Email)
	}
	if iso := m.RegistrationDate.ISO(); iso != "" {
		props[memPropRegistrationDate] = notion.DateProp(iso)
	}
	if iso := m.EffectiveLastUpdate(); iso != "" {
		props[memPropLastUpdate] = notion.DateProp(iso)
	}

	return props
}

// PageStudentNumber extracts the natural key from a members page.
func PageStudentNumber(p notion.Page) (int64, bool) {
	n, ok := p.Properties[memPropStudentNumber].NumberValue()
	if !ok {
		return 0, false
	}
	return int64(n), true
}

// FieldChange records one field that differs between the relational row
// and its Notion page, for diagnostic logging.
type FieldChange struct {
	Field string
	Old   string
	New   string
}

// DiffPage compares the member row against its matched page field by
// field. Both sides pass through the same normalization as the write
// path, so formatting differences never count as changes. An empty
// result means the page is up to date.
func (m Member) DiffPage(p notion.Page) []FieldChange {

	props := p.Properties

	var changes []FieldChange
	record := func(field, old, new string) {
		if old != new {
			changes = append(changes, FieldChange{Field: field, Old: old, New: new})
		}
	}

	record(memPropFirstName, props[memPropFirstName].PlainText(), m.FirstName)
	record(memPropLastName, props[memPropLastName].PlainText(), m.LastName)
	record(memPropPreferredName, props[memPropPreferredName].PlainText(), m.PreferredName)
	record(memPropEmail, props[memPropEmail].EmailValue(), m.Email)
	record(memPropStatus, props[memPropStatus].SelectName(), m.Status)
	record(memPropFaculty, props[memPropFaculty].SelectName(), m.Faculty)
	record(memPropCollege, props[memPropCollege].SelectName(), m.College)
	record(memPropProgram, props[memPropProgram].PlainText(), m.Program)
	record(memPropYearOfStudy, props[memPropYearOfStudy].SelectName(), m.YearOfStudy)
	record(memPropCountry, props[memPropCountry].SelectName(), m.Country)
	record(memPropRegistrationDate, pageDateISO(props[memPropRegistrationDate]), m.RegistrationDate.ISO())
	record(memPropLastUpdate, pageDateISO(props[memPropLastUpdate]), m.EffectiveLastUpdate())

	return changes
}

// pageDateISO normalizes a page-side date to the same RFC 3339 UTC form
// LegacyTime.ISO emits.
func pageDateISO(p notion.Property) string {
	if p.Date == nil || p.Date.Start == "" {
		return ""
	}
	t, err := parseNotionTime(p.Date.Start)
	if err != nil {
		return p.Date.Start
	}
	return t.UTC().Format(time.RFC3339)
}
