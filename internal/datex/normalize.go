// Package datex converts the date representations found in externally
// authored spreadsheets into the canonical YYYY-MM-DD form used at every
// storage and comparison boundary.
package datex

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"
)

// Layout is the canonical calendar-date layout.
const Layout = "2006-01-02"

// maxSerial is 9999-12-31 in the 1900 date system.
const maxSerial = 2958465

// textLayouts are tried in order; the first strict match wins.
var textLayouts = []string{
	"02/01/2006", // DD/MM/YYYY
	"2/1/2006",   // D/M/YYYY
	"2006-01-02", // YYYY-MM-DD
	"01/02/2006", // MM/DD/YYYY
	"02-01-2006", // DD-MM-YYYY
	"2-1-2006",   // D-M-YYYY
	"2006/01/02", // YYYY/MM/DD
}

const notDelivered = "no entregado"

// Normalize returns the canonical form of raw and true, or "" and false when
// raw means "no date" or cannot be read as one. It never panics.
func Normalize(raw any) (string, bool) {
	switch v := raw.(type) {
	case nil:
		return "", false
	case string:
		return normalizeText(v)
	case time.Time:
		if v.IsZero() {
			return "", false
		}
		return v.Format(Layout), true
	case float64:
		return normalizeSerial(v)
	case float32:
		return normalizeSerial(float64(v))
	case int:
		return normalizeSerial(float64(v))
	case int64:
		return normalizeSerial(float64(v))
	case int32:
		return normalizeSerial(float64(v))
	}
	return "", false
}

func normalizeSerial(serial float64) (string, bool) {
	if serial <= 0 || serial > maxSerial || math.IsNaN(serial) {
		return "", false
	}
	t, err := excelize.ExcelDateToTime(math.Floor(serial), false)
	if err != nil {
		return "", false
	}
	return t.Format(Layout), true
}

func normalizeText(s string) (string, bool) {
	if strings.TrimSpace(s) == "" || strings.EqualFold(strings.TrimSpace(s), notDelivered) {
		return "", false
	}

	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	for _, layout := range textLayouts {
		t, err := time.Parse(layout, clean)
		if err != nil {
			continue
		}
		if t.Format(layout) != clean {
			continue
		}
		return t.Format(Layout), true
	}
	return "", false
}
