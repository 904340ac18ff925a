package types

import "strings"

// Region is one of the three top-level Hong Kong administrative areas used to
// filter venues on the map. The zero value means "unset".
type Region string

const (
	RegionHongKongIsland Region = "hong-kong-island"
	RegionKowloon        Region = "kowloon"
	RegionNewTerritories Region = "new-territories"
)

// RegionKeywords pairs a region with the keywords that identify it.
type RegionKeywords struct {
	Region   Region
	Keywords []string
}

// RegionInput is the free-text location of a venue. Empty fields are treated
// as absent.
type RegionInput struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
}

// RegionMatch is the outcome of MatchRegion. Matched is false when no keyword
// of any region was found; Region and Keyword are empty in that case.
type RegionMatch struct {
	Region  Region `json:"region,omitempty"`
	Keyword string `json:"keyword,omitempty"`
	Matched bool   `json:"matched"`
}

type regionLabel struct {
	Chinese string
	English string
}

var regionLabels = map[Region]regionLabel{
	RegionHongKongIsland: {Chinese: "香港島", English: "Hong Kong Island"},
	RegionKowloon:        {Chinese: "九龍", English: "Kowloon"},
	RegionNewTerritories: {Chinese: "新界", English: "New Territories"},
}

// regionKeywordTable is checked in order. Ambiguous text resolves to the
// earliest region, so no keyword may contain a keyword of an earlier region.
// All English keywords are lower-case.
var regionKeywordTable = []RegionKeywords{
	{
		Region: RegionHongKongIsland,
		Keywords: []string{
			// 中西區
			"香港島", "港島", "中環", "上環", "西環", "西營盤", "石塘咀", "堅尼地城", "半山", "金鐘",
			// 灣仔區
			"灣仔", "銅鑼灣", "跑馬地", "大坑道", "大坑徑", "浣紗街", "天后",
			// 東區
			"北角", "炮台山", "鰂魚涌", "太古", "西灣河", "筲箕灣", "柴灣道", "柴灣站", "柴灣邨", "環翠道", "常安街", "新業街", "杏花邨", "小西灣",
			// 南區
			"香港仔", "鴨脷洲", "黃竹坑", "薄扶林", "赤柱", "淺水灣", "數碼港",
			"hong kong island", "queen's road central", "des voeux road central", "central district", "sheung wan", "sai ying pun", "kennedy town", "admiralty",
			"wan chai", "causeway bay", "happy valley", "tin hau",
			"north point", "fortress hill", "quarry bay", "taikoo", "tai koo", "sai wan ho",
			"shau kei wan", "chai wan road", "aberdeen", "ap lei chau", "wong chuk hang", "pok fu lam",
			"stanley", "repulse bay", "cyberport",
		},
	},
	{
		Region: RegionKowloon,
		Keywords: []string{
			// 油尖旺
			"九龍", "尖沙咀", "佐敦", "油麻地", "旺角", "太子", "大角咀",
			// 深水埗
			"深水埗", "長沙灣", "荔枝角", "美孚", "石硤尾", "大坑東",
			// 九龍城
			"紅磡", "土瓜灣", "何文田", "啟德",
			// 黃大仙
			"黃大仙", "新蒲崗", "鑽石山", "慈雲山", "樂富", "彩虹",
			// 觀塘
			"觀塘", "牛頭角", "藍田", "油塘", "秀茂坪",
			"kowloon", "tsim sha tsui", "jordan", "yau ma tei", "mong kok", "mongkok",
			"prince edward", "tai kok tsui", "sham shui po", "cheung sha wan", "lai chi kok",
			"mei foo", "tai hang tung", "hung hom", "to kwa wan", "ho man tin", "kai tak", "wong tai sin",
			"san po kong", "diamond hill", "lok fu", "choi hung", "kwun tong", "ngau tau kok",
			"lam tin", "yau tong",
		},
	},
	{
		Region: RegionNewTerritories,
		Keywords: []string{
			"新界",
			// 西貢
			"將軍澳", "坑口", "寶琳", "調景嶺", "西貢",
			// 沙田
			"沙田", "大圍", "火炭", "馬鞍山",
			// 大埔 / 北區
			"大埔", "粉嶺", "上水",
			// 元朗 / 屯門
			"元朗", "天水圍", "屯門",
			// 荃灣 / 葵青
			"荃灣", "柴灣角", "深井", "葵涌", "葵芳", "青衣",
			// 離島
			"東涌", "大嶼山", "馬灣", "離島",
			"new territories", "tseung kwan o", "hang hau", "po lam", "tiu keng leng", "sai kung",
			"sha tin", "shatin", "tai wai", "fo tan", "ma on shan", "tai po", "fanling",
			"sheung shui", "yuen long", "tin shui wai", "tuen mun", "tsuen wan", "kwai chung",
			"kwai fong", "tsing yi", "chai wan kok", "tung chung", "lantau", "ma wan",
		},
	},
}

// RegionKeywordTable returns a copy of the classifier's keyword table in
// priority order.
func RegionKeywordTable() []RegionKeywords {
	out := make([]RegionKeywords, len(regionKeywordTable))
	for i, rk := range regionKeywordTable {
		out[i] = RegionKeywords{Region: rk.Region, Keywords: append([]string(nil), rk.Keywords...)}
	}
	return out
}

// AllRegions lists the regions in classifier priority order.
func AllRegions() []Region {
	regions := make([]Region, 0, len(regionKeywordTable))
	for _, rk := range regionKeywordTable {
		regions = append(regions, rk.Region)
	}
	return regions
}

// Valid reports whether r is one of the known regions.
func (r Region) Valid() bool {
	_, ok := regionLabels[r]
	return ok
}

// Label returns the bilingual display name, or "" for an unknown region.
func (r Region) Label() (chinese, english string) {
	l := regionLabels[r]
	return l.Chinese, l.English
}

// ParseRegion accepts a region tag in any letter case.
func ParseRegion(s string) (Region, bool) {
	r := Region(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", false
	}
	return r, true
}

func (in RegionInput) text() string {
	parts := make([]string, 0, 4)
	for _, f := range []string{in.Name, in.Address, in.City, in.State} {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, f)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// MatchRegion returns the first region, in priority order, whose keyword list
// has an entry contained in the input text.
func MatchRegion(in RegionInput) RegionMatch {
	text := in.text()
	if text == "" {
		return RegionMatch{}
	}
	for _, rk := range regionKeywordTable {
		for _, kw := range rk.Keywords {
			if strings.Contains(text, kw) {
				return RegionMatch{Region: rk.Region, Keyword: kw, Matched: true}
			}
		}
	}
	return RegionMatch{}
}

// ClassifyRegion maps free-text venue location fields to a region. The bool is
// false when nothing matched; callers decide their own fallback.
func ClassifyRegion(in RegionInput) (Region, bool) {
	m := MatchRegion(in)
	return m.Region, m.Matched
}
