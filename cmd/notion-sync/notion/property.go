package notion

import "strings"

// Property is one database page property. Exactly one of the value fields
// is set, matching the wire shape of the Notion API: the JSON key present
// tells the API which kind the property is.
type Property struct {
	Title    []RichText    `json:"title,omitempty"`
	RichText []RichText    `json:"rich_text,omitempty"`
	Select   *SelectOption `json:"select,omitempty"`
	Number   *float64      `json:"number,omitempty"`
	URL      *string       `json:"url,omitempty"`
	Checkbox *bool         `json:"checkbox,omitempty"`
	Date     *DateValue    `json:"date,omitempty"`
	Email    *string       `json:"email,omitempty"`
	Relation []Relation    `json:"relation,omitempty"`
}

type RichText struct {
	Type      string    `json:"type,omitempty"`
	Text      *TextData `json:"text,omitempty"`
	PlainText string    `json:"plain_text,omitempty"`
}

type TextData struct {
	Content string `json:"content"`
}

type SelectOption struct {
	Name string `json:"name"`
}

type DateValue struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

type Relation struct {
	ID string `json:"id"`
}

// Page is a database row. Icon is only populated for pages with an
// emoji icon; external/file icons come back with an empty Emoji.
type Page struct {
	ID         string              `json:"id"`
	Icon       *Icon               `json:"icon,omitempty"`
	Properties map[string]Property `json:"properties"`
}

type Icon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji,omitempty"`
}

// PlainText concatenates the text fragments of a title or rich_text
// property. Returns "" for any other kind.
func (p Property) PlainText() string {
	frags := p.Title
	if len(frags) == 0 {
		frags = p.RichText
	}
	var b strings.Builder
	for _, f := range frags {
		if f.PlainText != "" {
			b.WriteString(f.PlainText)
		} else if f.Text != nil {
			b.WriteString(f.Text.Content)
		}
	}
	return b.String()
}

func (p Property) SelectName() string {
	if p.Select == nil {
		return ""
	}
	return p.Select.Name
}

func (p Property) NumberValue() (float64, bool) {
	if p.Number == nil {
		return 0, false
	}
	return *p.Number, true
}

func (p Property) URLValue() string {
	if p.URL == nil {
		return ""
	}
	return *p.URL
}

func (p Property) Bool() bool {
	return p.Checkbox != nil && *p.Checkbox
}

func (p Property) EmailValue() string {
	if p.Email == nil {
		return ""
	}
	return *p.Email
}

// Builders for outgoing payloads. Writers must omit a property key
// entirely rather than send an empty value: the API rejects null-ish
// literals for select and number kinds.

func TitleProp(s string) Property {
	return Property{Title: []RichText{{Type: "text", Text: &TextData{Content: s}}}}
}

func RichTextProp(s string) Property {
	return Property{RichText: []RichText{{Type: "text", Text: &TextData{Content: s}}}}
}

func SelectProp(name string) Property {
	return Property{Select: &SelectOption{Name: name}}
}

func NumberProp(n float64) Property {
	return Property{Number: &n}
}

func URLProp(u string) Property {
	return Property{URL: &u}
}

func CheckboxProp(b bool) Property {
	return Property{Checkbox: &b}
}

func DateProp(startISO string) Property {
	return Property{Date: &DateValue{Start: startISO}}
}

func EmailProp(e string) Property {
	return Property{Email: &e}
}
