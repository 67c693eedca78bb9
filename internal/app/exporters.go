package app

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/klabast/wb-services/shop-directory/internal/shops"
)

// CSVColumns is the header row of the CSV export
var CSVColumns = []string{"No.", "店名", "DC", "サーバー", "種族・性別", "曜日", "開始", "終了", "金額", "事前予約", "備考", "最終確認日"}

// icsDays maps day columns to RRULE BYDAY codes
var icsDays = map[shops.DayKey]string{
	shops.Monday:    "MO",
	shops.Tuesday:   "TU",
	shops.Wednesday: "WE",
	shops.Thursday:  "TH",
	shops.Friday:    "FR",
	shops.Saturday:  "SA",
	shops.Sunday:    "SU",
}

// writeString writes to w and logs any error (helper for ICS generation)
func writeString(w io.Writer, s string) {
	if _, err := fmt.Fprint(w, s); err != nil {
		log.Printf("Error writing to response: %v", err)
	}
}

// icsLine writes one content line terminated with CRLF
func icsLine(w io.Writer, format string, args ...interface{}) {
	writeString(w, fmt.Sprintf(format, args...)+"\r\n")
}

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`)

// joinDays renders day flags the way the listing shows them
func joinDays(days []shops.DayKey) string {
	labels := make([]string, len(days))
	for i, d := range days {
		labels[i] = string(d)
	}
	return strings.Join(labels, "/")
}

// GenerateCSV writes the shops as a CSV download
func GenerateCSV(w http.ResponseWriter, records []shops.Record) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=shops.csv")

	// BOM so spreadsheet apps detect UTF-8
	writeString(w, "\ufeff")

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVColumns); err != nil {
		log.Printf("Error writing CSV export: %v", err)
		return
	}
	for _, r := range records {
		row := []string{
			r.No(), r.Name(), r.DC(), r.Server(), r.Race(), joinDays(r.OpenDays()),
			r.Start(), r.End(), r.Price(), r.AdvanceBooking(), r.Note(), r.CheckedAt(),
		}
		if err := cw.Write(row); err != nil {
			log.Printf("Error writing CSV export: %v", err)
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		log.Printf("Error flushing CSV export: %v", err)
	}
}

// GenerateJSON writes the shops as a JSON download
func GenerateJSON(w http.ResponseWriter, records []shops.Record, now time.Time) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=shops.json")

	data := map[string]interface{}{
		"exportedAt": now.Format(time.RFC3339),
		"total":      len(records),
		"items":      records,
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON export: %v", err)
		http.Error(w, ErrInternalServer, http.StatusInternalServerError)
	}
}

// weekStart returns midnight of the Monday of t's week
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	d := t.AddDate(0, 0, -offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
}

// GenerateICS writes one weekly recurring event per shop with fixed opening days.
// Shops open only irregularly or with unparseable hours are skipped.
func GenerateICS(w http.ResponseWriter, records []shops.Record, now time.Time) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=shops.ics")

	tz := now.Location().String()

	icsLine(w, "BEGIN:VCALENDAR")
	icsLine(w, "VERSION:2.0")
	icsLine(w, "PRODID:%s", ICSProductID)
	icsLine(w, "X-WR-CALNAME:営業日カレンダー")
	icsLine(w, "X-WR-TIMEZONE:%s", tz)
	icsLine(w, "CALSCALE:GREGORIAN")

	monday := weekStart(now)
	stamp := now.UTC().Format("20060102T150405Z")

	for _, r := range records {
		start, okStart := shops.ParseTimeToMinutes(r.Start())
		end, okEnd := shops.ParseTimeToMinutes(r.End())
		if !okStart || !okEnd {
			continue
		}

		var byDay []string
		first := -1
		for i, d := range shops.Weekdays {
			if r.Flag(d) {
				byDay = append(byDay, icsDays[d])
				if first < 0 {
					first = i
				}
			}
		}
		if len(byDay) == 0 {
			continue
		}

		duration := end - start
		if duration <= 0 {
			duration += shops.MinutesPerDay
		}

		dtStart := monday.AddDate(0, 0, first).Add(time.Duration(start) * time.Minute)
		dtEnd := dtStart.Add(time.Duration(duration) * time.Minute)

		uid := r.No()
		if uid == "" {
			uid = r.Name()
		}

		icsLine(w, "BEGIN:VEVENT")
		icsLine(w, "UID:shop-%s@shop-directory", icsEscaper.Replace(uid))
		icsLine(w, "DTSTAMP:%s", stamp)
		icsLine(w, "DTSTART;TZID=%s:%s", tz, dtStart.Format("20060102T150405"))
		icsLine(w, "DTEND;TZID=%s:%s", tz, dtEnd.Format("20060102T150405"))
		icsLine(w, "RRULE:FREQ=WEEKLY;BYDAY=%s", strings.Join(byDay, ","))
		icsLine(w, "SUMMARY:%s", icsEscaper.Replace(r.Name()))
		if loc := strings.TrimSpace(r.DC() + " " + r.Server()); loc != "" {
			icsLine(w, "LOCATION:%s", icsEscaper.Replace(loc))
		}
		if note := r.Note(); note != "" {
			icsLine(w, "DESCRIPTION:%s", icsEscaper.Replace(note))
		}
		icsLine(w, "END:VEVENT")
	}

	icsLine(w, "END:VCALENDAR")
}
