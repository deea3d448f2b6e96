package domain

import (
	"fmt"
	"time"
)

// DateKeyLayout is the layout of the date part of a document number.
const DateKeyLayout = "20060102"

// SequenceKey identifies one numbering counter: per company, type and day.
type SequenceKey struct {
	CompanyID    string
	DocumentType DocumentType
	DateKey      string
}

// NewSequenceKey builds the key for the day containing t in loc.
func NewSequenceKey(companyID string, docType DocumentType, t time.Time, loc *time.Location) SequenceKey {
	if loc == nil {
		loc = time.UTC
	}
	return SequenceKey{
		CompanyID:    companyID,
		DocumentType: docType,
		DateKey:      t.In(loc).Format(DateKeyLayout),
	}
}

// FormatDocumentNumber renders PREFIX-YYYYMMDD-NNN. Serials past 999 widen.
func FormatDocumentNumber(key SequenceKey, serial int64) string {
	return fmt.Sprintf("%s-%s-%03d", key.DocumentType.Prefix(), key.DateKey, serial)
}
