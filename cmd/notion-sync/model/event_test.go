package model

import (
	"testing"

	"notion-sync-backend/cmd/notion-sync/notion"

	"github.com/stretchr/testify/assert"
)

func eventPage(props map[string]notion.Property) notion.Page {
	return notion.Page{
		ID:         "page-1",
		Properties: props,
	}
}

func TestEventFromPage_AllFields(t *testing.T) {
	page := eventPage(map[string]notion.Property{
		"ID":            notion.NumberProp(42),
		"Name":          notion.TitleProp("Beach Cleanup"),
		"Description":   notion.RichTextProp("Bring gloves"),
		"Location":      notion.RichTextProp("Corniche"),
		"Type":          notion.SelectProp("Volunteering"),
		"Organization":  notion.RichTextProp("Green Club"),
		"Price":         notion.NumberProp(12.5),
		"Calendar Link": notion.URLProp("https://cal.example/42"),
		"CPSIF Funded":  notion.CheckboxProp(true),
		"Date": {Date: &notion.DateValue{
			Start: "2026-03-14T10:00:00+04:00",
			End:   "2026-03-14T13:30:00+04:00",
		}},
	})
	page.Icon = &notion.Icon{Type: "emoji", Emoji: "🌊"}

	ev := EventFromPage(page)

	assert.Equal(t, 42, ev.ID)
	assert.Equal(t, "Beach Cleanup", ev.Name)
	assert.Equal(t, "Bring gloves", ev.Description)
	assert.Equal(t, "Corniche", ev.Location)
	assert.Equal(t, "Volunteering", ev.Type)
	assert.NotNil(t, ev.Organization)
	assert.Equal(t, "Green Club", *ev.Organization)
	assert.Equal(t, 12.5, ev.Price)
	assert.Equal(t, "https://cal.example/42", ev.CalendarLink)
	assert.True(t, ev.IsCpsifFunded)
	assert.Equal(t, "🌊", ev.Emoji)

	assert.Equal(t, 14, ev.Day)
	assert.Equal(t, 3, ev.Month)
	assert.Equal(t, 2026, ev.Year)
	assert.Equal(t, 10, ev.StartHour)
	assert.Equal(t, 0, ev.StartMinute)
	assert.Equal(t, 13, ev.EndHour)
	assert.Equal(t, 30, ev.EndMinute)
}

func TestEventFromPage_Defaults(t *testing.T) {
	ev := EventFromPage(eventPage(map[string]notion.Property{}))

	assert.Equal(t, 0, ev.ID)
	assert.Equal(t, "NO NAME", ev.Name)
	assert.Equal(t, "NONE", ev.Description)
	assert.Equal(t, "TBA", ev.Location)
	assert.Equal(t, "LESA Event", ev.Type)
	assert.Nil(t, ev.Organization)
	assert.Equal(t, "", ev.Emoji)
	assert.Equal(t, float64(0), ev.Price)
	assert.Equal(t, "0", ev.Link)
	assert.Equal(t, "NONE", ev.CalendarLink)
	assert.False(t, ev.IsCpsifFunded)

	assert.Equal(t, 0, ev.Day)
	assert.Equal(t, 0, ev.Month)
	assert.Equal(t, 0, ev.Year)
	assert.Equal(t, 0, ev.StartHour)
	assert.Equal(t, 0, ev.StartMinute)
	assert.Equal(t, 0, ev.EndHour)
	assert.Equal(t, 0, ev.EndMinute)
}

func TestEventFromPage_MultiDayRange(t *testing.T) {
	ev := EventFromPage(eventPage(map[string]notion.Property{
		"Date": {Date: &notion.DateValue{
			Start: "2025-11-07T18:00:00+04:00",
			End:   "2025-11-09T02:00:00+04:00",
		}},
	}))

	assert.Equal(t, 0, ev.Day)
	assert.Equal(t, 11, ev.Month)
	assert.Equal(t, 2025, ev.Year)
	assert.Equal(t, 0, ev.StartHour)
	assert.Equal(t, 0, ev.StartMinute)
	assert.Equal(t, 0, ev.EndHour)
	assert.Equal(t, 0, ev.EndMinute)
}

func TestEventFromPage_NoEndInstant(t *testing.T) {
	ev := EventFromPage(eventPage(map[string]notion.Property{
		"Date": {Date: &notion.DateValue{Start: "2025-11-07"}},
	}))

	assert.Equal(t, 0, ev.Day)
	assert.Equal(t, 11, ev.Month)
	assert.Equal(t, 2025, ev.Year)
}

func TestEventFromPage_SameDayCrossingMidnightElapsed(t *testing.T) {
	// Same calendar date even though more than a day could elapse across
	// zones; the comparison is on local calendar dates.
	ev := EventFromPage(eventPage(map[string]notion.Property{
		"Date": {Date: &notion.DateValue{
			Start: "2025-11-07T00:10:00+04:00",
			End:   "2025-11-07T23:50:00+04:00",
		}},
	}))

	assert.Equal(t, 7, ev.Day)
	assert.Equal(t, 0, ev.StartHour)
	assert.Equal(t, 10, ev.StartMinute)
	assert.Equal(t, 23, ev.EndHour)
	assert.Equal(t, 50, ev.EndMinute)
}

func TestEventCancelled(t *testing.T) {
	cancelled := eventPage(map[string]notion.Property{
		"Status": notion.SelectProp(StatusCancelled),
		"Name":   notion.TitleProp("Ghost Event"),
	})
	active := eventPage(map[string]notion.Property{
		"Status": notion.SelectProp("Confirmed"),
	})
	noStatus := eventPage(map[string]notion.Property{})

	assert.True(t, EventCancelled(cancelled))
	assert.False(t, EventCancelled(active))
	assert.False(t, EventCancelled(noStatus))
}

func TestDeriveLink(t *testing.T) {
	tests := []struct {
		name     string
		props    map[string]notion.Property
		expected string
	}{
		{
			name:     "registration absent",
			props:    map[string]notion.Property{},
			expected: "0",
		},
		{
			name: "registration not required",
			props: map[string]notion.Property{
				"Registration": notion.SelectProp("Not Required"),
			},
			expected: "0",
		},
		{
			name: "club form wins over url",
			props: map[string]notion.Property{
				"Registration":      notion.SelectProp("Club Form"),
				"Registration Link": notion.URLProp("https://forms.example/x"),
			},
			expected: "2",
		},
		{
			name: "required with url",
			props: map[string]notion.Property{
				"Registration":      notion.SelectProp("Required"),
				"Registration Link": notion.URLProp("https://forms.example/x"),
			},
			expected: "https://forms.example/x",
		},
		{
			name: "required without url",
			props: map[string]notion.Property{
				"Registration": notion.SelectProp("Required"),
			},
			expected: "1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, deriveLink(tt.props))
		})
	}
}

func TestEvent_TableName(t *testing.T) {
	event := Event{}
	assert.Equal(t, "events", event.TableName())
}
