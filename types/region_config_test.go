package types

import (
	"strings"
	"testing"
)

func TestClassifyRegion_Examples(t *testing.T) {
	tests := []struct {
		name      string
		input     RegionInput
		want      Region
		wantMatch bool
	}{
		{
			name:      "taikoo shing address",
			input:     RegionInput{Address: "太古城中心第二期103B舖"},
			want:      RegionHongKongIsland,
			wantMatch: true,
		},
		{
			name:      "langham place address",
			input:     RegionInput{Address: "旺角朗豪坊13樓1302-1303號舖"},
			want:      RegionKowloon,
			wantMatch: true,
		},
		{
			name:      "metro city address",
			input:     RegionInput{Address: "將軍澳新都城2期1樓"},
			want:      RegionNewTerritories,
			wantMatch: true,
		},
		{
			name:      "foreign address",
			input:     RegionInput{Address: "123 Main St, Springfield"},
			wantMatch: false,
		},
		{
			name:      "english city field in upper case",
			input:     RegionInput{Name: "Game Zone", City: "MONG KOK"},
			want:      RegionKowloon,
			wantMatch: true,
		},
		{
			name:      "tai hang tung is in sham shui po",
			input:     RegionInput{Address: "深水埗大坑東道"},
			want:      RegionKowloon,
			wantMatch: true,
		},
		{
			name:      "chai wan kok is in tsuen wan",
			input:     RegionInput{Address: "荃灣柴灣角街"},
			want:      RegionNewTerritories,
			wantMatch: true,
		},
		{
			name:      "central park outside central",
			input:     RegionInput{Name: "Tsuen Wan Central Park"},
			want:      RegionNewTerritories,
			wantMatch: true,
		},
		{
			name:      "chai wan kok english",
			input:     RegionInput{Address: "Chai Wan Kok Street"},
			want:      RegionNewTerritories,
			wantMatch: true,
		},
		{
			name:      "chai wan street",
			input:     RegionInput{Address: "柴灣環翠道"},
			want:      RegionHongKongIsland,
			wantMatch: true,
		},
		{
			name:      "queen's road central",
			input:     RegionInput{Address: "88 Queen's Road Central"},
			want:      RegionHongKongIsland,
			wantMatch: true,
		},
		{
			name:      "keyword only in state field",
			input:     RegionInput{Name: "Jump Park", State: "New Territories"},
			want:      RegionNewTerritories,
			wantMatch: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClassifyRegion(tt.input)
			if ok != tt.wantMatch {
				t.Fatalf("ClassifyRegion(%+v) matched = %v, want %v", tt.input, ok, tt.wantMatch)
			}
			if got != tt.want {
				t.Errorf("ClassifyRegion(%+v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestClassifyRegion_EmptyInput(t *testing.T) {
	inputs := []RegionInput{
		{},
		{Name: "   ", Address: "\t"},
	}
	for _, in := range inputs {
		if r, ok := ClassifyRegion(in); ok || r != "" {
			t.Errorf("ClassifyRegion(%+v) = (%q, %v), want no match", in, r, ok)
		}
	}
}

func TestClassifyRegion_EveryKeyword(t *testing.T) {
	table := RegionKeywordTable()
	for i, rk := range table {
		for _, kw := range rk.Keywords {
			// a keyword must not be shadowed by an earlier region
			for _, earlier := range table[:i] {
				for _, ek := range earlier.Keywords {
					if strings.Contains(kw, ek) {
						t.Fatalf("keyword %q of %s contains %q of earlier region %s", kw, rk.Region, ek, earlier.Region)
					}
				}
			}

			got, ok := ClassifyRegion(RegionInput{Address: "some shop, " + kw + " branch"})
			if !ok || got != rk.Region {
				t.Errorf("keyword %q: got (%q, %v), want %q", kw, got, ok, rk.Region)
			}
		}
	}
}

func TestClassifyRegion_PriorityTieBreak(t *testing.T) {
	tests := []RegionInput{
		{Address: "旺角 銅鑼灣"},
		{Name: "Mong Kok Store", Address: "Causeway Bay"},
		{Address: "Kowloon Bay, near Tai Koo"},
	}
	for _, in := range tests {
		got, ok := ClassifyRegion(in)
		if !ok || got != RegionHongKongIsland {
			t.Errorf("ClassifyRegion(%+v) = (%q, %v), want hong-kong-island", in, got, ok)
		}
	}

	got, _ := ClassifyRegion(RegionInput{Address: "尖沙咀 沙田"})
	if got != RegionKowloon {
		t.Errorf("kowloon and new territories keywords: got %q, want kowloon", got)
	}
}

func TestMatchRegion_ReturnsKeyword(t *testing.T) {
	m := MatchRegion(RegionInput{Address: "太古城中心第二期103B舖"})
	if !m.Matched || m.Keyword != "太古" {
		t.Errorf("MatchRegion = %+v, want keyword 太古", m)
	}

	m = MatchRegion(RegionInput{City: "Springfield"})
	if m.Matched || m.Keyword != "" || m.Region != "" {
		t.Errorf("MatchRegion = %+v, want zero value", m)
	}
}

func TestParseRegion(t *testing.T) {
	tests := []struct {
		in   string
		want Region
		ok   bool
	}{
		{"kowloon", RegionKowloon, true},
		{" Hong-Kong-Island ", RegionHongKongIsland, true},
		{"NEW-TERRITORIES", RegionNewTerritories, true},
		{"macau", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseRegion(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseRegion(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRegionLabels(t *testing.T) {
	for _, r := range AllRegions() {
		zh, en := r.Label()
		if zh == "" || en == "" {
			t.Errorf("region %s has no label", r)
		}
	}
	if zh, en := Region("").Label(); zh != "" || en != "" {
		t.Errorf("empty region label = %q/%q", zh, en)
	}
}

func TestRegionKeywordTable_IsCopy(t *testing.T) {
	table := RegionKeywordTable()
	table[0].Keywords[0] = "mutated"
	if RegionKeywordTable()[0].Keywords[0] == "mutated" {
		t.Error("RegionKeywordTable exposes internal state")
	}
}
