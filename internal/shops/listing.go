package shops

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Tab selects the listing sub-population
type Tab string

const (
	TabAll  Tab = "all"
	TabOpen Tab = "open"
)

// ParseTab maps a query value to a tab, defaulting to TabAll
func ParseTab(s string) Tab {
	if Tab(strings.ToLower(strings.TrimSpace(s))) == TabOpen {
		return TabOpen
	}
	return TabAll
}

// dynamicStatus marks rows whose open state is derived from their hours
const dynamicStatus = "-"

// placeholder values that never become filter options
var (
	optionPlaceholders = map[string]bool{"": true, "-": true, "なし": true}
	dcPlaceholders     = map[string]bool{"": true, "-": true, "なし": true, "非公開": true}
)

var dcSplitRe = regexp.MustCompile(`[ ,/]+`)

// dcBlanks are turned into plain spaces before a DC cell is split
var dcBlanks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ", "　", " ")

// Query holds the optional search criteria; empty fields are ignored
type Query struct {
	Tab  Tab
	DC   string
	Race string
	Day  string
	Name string
}

// Facets are the select options offered for the current population
type Facets struct {
	DCs     []string `json:"dcs"`
	Servers []string `json:"servers"`
	Races   []string `json:"races"`
	Days    []DayKey `json:"days"`
}

// Population keeps only the records whose status column is "-"
func Population(records []Record) []Record {
	out := []Record{}
	for _, r := range records {
		if Normalize(r.Status()) == dynamicStatus {
			out = append(out, r)
		}
	}
	return out
}

// SingleDC returns the record's DC when the cell holds exactly one value
func SingleDC(r Record) (string, bool) {
	v := strings.TrimSpace(dcBlanks.Replace(r.DC()))
	if dcPlaceholders[v] {
		return "", false
	}

	var tokens []string
	for _, t := range dcSplitRe.Split(v, -1) {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) != 1 {
		return "", false
	}

	token := strings.TrimSpace(tokens[0])
	if dcPlaceholders[token] {
		return "", false
	}
	return token, true
}

// ExtractFacets builds the DC, server, race and day options for a population
func ExtractFacets(records []Record) Facets {
	dcs := make([]string, 0, len(records))
	servers := make([]string, 0, len(records))
	races := make([]string, 0, len(records))
	for _, r := range records {
		if dc, ok := SingleDC(r); ok {
			dcs = append(dcs, dc)
		}
		servers = append(servers, r.Server())
		races = append(races, r.Race())
	}

	days := []DayKey{}
	for _, k := range DayKeys {
		for _, r := range records {
			if r.Flag(k) {
				days = append(days, k)
				break
			}
		}
	}

	return Facets{
		DCs:     uniqSorted(dcs),
		Servers: uniqSorted(servers),
		Races:   uniqSorted(races),
		Days:    days,
	}
}

// uniqSorted trims, drops placeholders, dedupes and sorts in Japanese collation order
func uniqSorted(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := []string{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if optionPlaceholders[v] || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	// Collator is not safe for concurrent use; build one per call
	collate.New(language.Japanese).SortStrings(out)
	return out
}

// Matches reports whether a record satisfies every criterion set in q.
// The tab is not considered here.
func (q Query) Matches(r Record) bool {
	if q.DC != "" {
		dc, ok := SingleDC(r)
		if !ok || dc != q.DC {
			return false
		}
	}
	if q.Race != "" && r.Race() != q.Race {
		return false
	}
	if q.Day != "" && !r.Flag(DayKey(q.Day)) {
		return false
	}
	if name := strings.ToLower(strings.TrimSpace(q.Name)); name != "" {
		if !strings.Contains(strings.ToLower(r.Name()), name) {
			return false
		}
	}
	return true
}

// Filter applies the tab and then the search criteria, keeping input order
func Filter(records []Record, q Query, now time.Time) []Record {
	out := []Record{}
	for _, r := range records {
		if q.Tab == TabOpen && !IsOpenAt(r, now) {
			continue
		}
		if q.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// FindByNo returns the first record with the given business key
func FindByNo(records []Record, no string) (Record, bool) {
	no = strings.TrimSpace(no)
	if no == "" {
		return nil, false
	}
	for _, r := range records {
		if r.No() == no {
			return r, true
		}
	}
	return nil, false
}
