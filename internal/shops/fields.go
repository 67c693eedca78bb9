package shops

import "strings"

// Record is one shop row keyed by detected header name
type Record map[string]string

// Known column names as they appear after header normalisation
const (
	FieldName           = "店名"
	FieldStatus         = "営業"
	FieldStart          = "開始"
	FieldEnd            = "終了"
	FieldServer         = "サーバー"
	FieldRace           = "種族・性別"
	FieldPrice          = "金額"
	FieldPriceDetail    = "金額詳細"
	FieldNote           = "備考"
	FieldCheckedAt      = "最終確認日"
	FieldAdvanceBooking = "事前予約"
	FieldTagURL         = "ﾀｸﾞurl"
)

// Fallback key lists. Headers are lower-cased by DetectHeader, but records
// built by hand (or older sheets) may still carry the original spelling.
var (
	NoKeys     = []string{"No.", "no.", "No", "no"}
	DCKeys     = []string{"dc", "DC"}
	XTagKeys   = []string{"Xタグ", "xタグ"}
	XIDKeys    = []string{"x id", "X ID", "twitter id", "Twitter ID"}
	XURLKeys   = []string{"x url", "X URL"}
	HPKeys     = []string{"hp", "HP"}
	TagURLKeys = []string{FieldTagURL, "ﾀｸﾞURL"}
)

// Lookup returns the trimmed value of the first key present in the record
func (r Record) Lookup(keys ...string) string {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// firstNonEmpty returns the first non-empty value among the keys
func (r Record) firstNonEmpty(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r[k]); v != "" {
			return v
		}
	}
	return ""
}

// No returns the business key of the shop
func (r Record) No() string { return r.Lookup(NoKeys...) }

// Name returns the store name
func (r Record) Name() string { return r.Lookup(FieldName) }

// Status returns the raw business status column
func (r Record) Status() string { return r.Lookup(FieldStatus) }

// DC returns the raw DC cell
func (r Record) DC() string { return r.Lookup(DCKeys...) }

func (r Record) Server() string         { return r.Lookup(FieldServer) }
func (r Record) Race() string           { return r.Lookup(FieldRace) }
func (r Record) Start() string          { return r.Lookup(FieldStart) }
func (r Record) End() string            { return r.Lookup(FieldEnd) }
func (r Record) Price() string          { return r.Lookup(FieldPrice) }
func (r Record) PriceDetail() string    { return r.Lookup(FieldPriceDetail) }
func (r Record) Note() string           { return r.Lookup(FieldNote) }
func (r Record) CheckedAt() string      { return r.Lookup(FieldCheckedAt) }
func (r Record) AdvanceBooking() string { return r.Lookup(FieldAdvanceBooking) }
func (r Record) XTag() string           { return r.firstNonEmpty(XTagKeys...) }
func (r Record) XID() string            { return r.firstNonEmpty(XIDKeys...) }
func (r Record) XURL() string           { return r.firstNonEmpty(XURLKeys...) }
func (r Record) HP() string             { return r.firstNonEmpty(HPKeys...) }
func (r Record) TagURL() string         { return r.firstNonEmpty(TagURLKeys...) }

// Flag reports whether the day column holds TRUE
func (r Record) Flag(day DayKey) bool {
	return IsTrue(r[string(day)])
}

// OpenDays returns the day labels flagged TRUE, in fixed order
func (r Record) OpenDays() []DayKey {
	days := []DayKey{}
	for _, k := range DayKeys {
		if r.Flag(k) {
			days = append(days, k)
		}
	}
	return days
}

// IsTrue reports whether a sheet checkbox value is TRUE (case-insensitive)
func IsTrue(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "TRUE")
}
