package shops

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// sampleGrid mimics a hand-maintained sheet: title row, spacer, header, data
func sampleGrid() [][]string {
	return [][]string{
		{"お店リスト（毎週更新しています。掲載希望はDMまでお願いします）", "", ""},
		{"", "", "", ""},
		{"No.", "店名", "営業", "DC", "サーバー", "開始", "終了", "月", "火", "水", "木", "金", "土", "日", "不定期", "種族・性別", "備考"},
		{"1", "Cafe ABC", "-", "Elemental", "Tonberry", "22:00", "5:00", "TRUE", "FALSE", "FALSE", "FALSE", "FALSE", "FALSE", "FALSE", "FALSE", "ララフェル", ""},
		{"", "", "", ""},
		{"2", " Bar Moon ", "休業中", "Gaia", "Ifrit", "20:00", "23:00", "TRUE", "TRUE", "TRUE", "TRUE", "TRUE", "FALSE", "FALSE", "FALSE", "", "長期休業"},
		{"3", "", "-", "Mana", "", "", "", "", "", "", "", "", "", "", "", "", "no name"},
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  店名  ", "店名"},
		{"X　ID", "x id"},
		{"Twitter   ID\n", "twitter id"},
		{"　　", ""},
		{"No.", "no."},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDetectHeader(t *testing.T) {
	res, err := DetectHeader(sampleGrid())
	if err != nil {
		t.Fatalf("DetectHeader() failed: %v", err)
	}

	if res.HeaderRowIndex != 2 {
		t.Errorf("HeaderRowIndex = %d, want 2", res.HeaderRowIndex)
	}

	want := []string{"no.", "店名", "営業", "dc", "サーバー", "開始", "終了", "月", "火", "水", "木", "金", "土", "日", "不定期", "種族・性別", "備考"}
	if !reflect.DeepEqual(res.Headers, want) {
		t.Errorf("Headers = %v, want %v", res.Headers, want)
	}
}

func TestDetectHeaderNotFound(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
	}{
		{name: "Empty grid", rows: nil},
		{name: "Only blank rows", rows: [][]string{{"", " "}, {"　"}}},
		{name: "No keywords and long cells", rows: [][]string{
			{"this is a rather long free text cell", "yet again a very long sentence here"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DetectHeader(tt.rows)
			if !errors.Is(err, ErrHeaderNotFound) {
				t.Errorf("DetectHeader() error = %v, want ErrHeaderNotFound", err)
			}
		})
	}
}

func TestDetectHeaderBonusOnly(t *testing.T) {
	// Short labels without any keyword still score 1 and win
	rows := [][]string{
		{"this is a rather long free text cell", "yet again a very long sentence here"},
		{"a", "b"},
	}
	res, err := DetectHeader(rows)
	if err != nil {
		t.Fatalf("DetectHeader() failed: %v", err)
	}
	if res.HeaderRowIndex != 1 {
		t.Errorf("HeaderRowIndex = %d, want 1", res.HeaderRowIndex)
	}
}

func TestDetectHeaderFirstTieWins(t *testing.T) {
	rows := [][]string{
		{"店名", "備考"},
		{"店名", "備考"},
	}
	res, err := DetectHeader(rows)
	if err != nil {
		t.Fatalf("DetectHeader() failed: %v", err)
	}
	if res.HeaderRowIndex != 0 {
		t.Errorf("HeaderRowIndex = %d, want 0 (first of equal scores)", res.HeaderRowIndex)
	}
}

func TestDetectHeaderIgnoresColumnsBeyondAA(t *testing.T) {
	// Keywords only past column AA must not count
	wide := make([]string, MaxCols+3)
	for i := range wide {
		wide[i] = "this is a rather long free text cell"
	}
	wide[MaxCols] = "店名"
	wide[MaxCols+1] = "営業"

	rows := [][]string{wide, {"店名"}}
	res, err := DetectHeader(rows)
	if err != nil {
		t.Fatalf("DetectHeader() failed: %v", err)
	}
	if res.HeaderRowIndex != 1 {
		t.Errorf("HeaderRowIndex = %d, want 1", res.HeaderRowIndex)
	}
}

func TestHeaderNamesPlaceholdersAndDuplicates(t *testing.T) {
	rows := [][]string{
		{"店名", "", "備考", "備考", " 備考 ", "", "備考_2"},
	}
	res, err := DetectHeader(rows)
	if err != nil {
		t.Fatalf("DetectHeader() failed: %v", err)
	}

	want := []string{"店名", "col_2", "備考", "備考_2", "備考_3", "col_6", "備考_2_2"}
	if !reflect.DeepEqual(res.Headers, want) {
		t.Errorf("Headers = %v, want %v", res.Headers, want)
	}

	seen := map[string]bool{}
	for _, h := range res.Headers {
		if h == "" {
			t.Error("header names must not be empty")
		}
		if seen[h] {
			t.Errorf("duplicate header name %q", h)
		}
		seen[h] = true
	}
}

func TestHeaderLengthCappedAtMaxCols(t *testing.T) {
	row := make([]string, 40)
	row[0] = "店名"
	res, err := DetectHeader([][]string{row})
	if err != nil {
		t.Fatalf("DetectHeader() failed: %v", err)
	}
	if len(res.Headers) != MaxCols {
		t.Errorf("len(Headers) = %d, want %d", len(res.Headers), MaxCols)
	}
	if !strings.HasPrefix(res.Headers[MaxCols-1], "col_") {
		t.Errorf("last header = %q, want col_ placeholder", res.Headers[MaxCols-1])
	}

	// Short header rows keep their own length
	res, err = DetectHeader([][]string{{"店名", "営業"}})
	if err != nil {
		t.Fatalf("DetectHeader() failed: %v", err)
	}
	if len(res.Headers) != 2 {
		t.Errorf("len(Headers) = %d, want 2", len(res.Headers))
	}
}
