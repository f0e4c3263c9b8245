package model

type BaseResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}

// MemberCSV is one row of the bulk-import file. Dates come in as raw
// strings and go through the same legacy normalization as database scans.
type MemberCSV struct {
	StudentNumber    int64  `csv:"student_number"`
	FirstName        string `csv:"first_name"`
	LastName         string `csv:"last_name"`
	PreferredName    string `csv:"preferred_name"`
	Email            string `csv:"email"`
	Status           string `csv:"status"`
	Faculty          string `csv:"faculty"`
	College          string `csv:"college"`
	Program          string `csv:"program"`
	YearOfStudy      string `csv:"year_of_study"`
	Country          string `csv:"country"`
	RegistrationDate string `csv:"registration_date"`
	LastUpdate       string `csv:"last_update"`
}

func (c MemberCSV) ToMember() Member {
	return Member{
		StudentNumber:    c.StudentNumber,
		FirstName:        c.FirstName,
		LastName:         c.LastName,
		PreferredName:    c.PreferredName,
		Email:            c.Email,
		Status:           c.Status,
		Faculty:          c.Faculty,
		College:          c.College,
		Program:          c.Program,
		YearOfStudy:      c.YearOfStudy,
		Country:          c.Country,
		RegistrationDate: ParseLegacyTime(c.RegistrationDate),
		LastUpdate:       ParseLegacyTime(c.LastUpdate),
	}
}

// ParseLegacyTime normalizes a raw date string the way LegacyTime.Scan
// would.
func ParseLegacyTime(s string) LegacyTime {
	var t LegacyTime
	t.scanString(s)
	return t
}
