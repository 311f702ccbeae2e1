package validators

import "time"

// Formatos aceitos nos formulários: ISO e o formato brasileiro.
const (
	FormatDateISO = "2006-01-02"
	FormatDateBR  = "02/01/2006"
	FormatTime    = "15:04"
)

// ParseDate tenta ISO primeiro, depois dd/mm/aaaa, no fuso informado.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(FormatDateISO, raw, loc); err == nil {
		return t, nil
	}
	return time.ParseInLocation(FormatDateBR, raw, loc)
}

// ParseDateTime combina data (ISO ou BR) e hora HH:MM.
func ParseDateTime(dateRaw, timeRaw string, loc *time.Location) (time.Time, error) {
	date, err := ParseDate(dateRaw, loc)
	if err != nil {
		return time.Time{}, err
	}

	hm, err := time.Parse(FormatTime, timeRaw)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(
		date.Year(), date.Month(), date.Day(),
		hm.Hour(), hm.Minute(), 0, 0,
		loc,
	), nil
}
