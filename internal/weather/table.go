package weather

import (
	"fmt"
	"sort"
)

// UnknownDescription is returned for categories a table does not map.
const UnknownDescription = "Unknown"

// DescriptionTable maps a weather category (WMO code / 10) to its label.
type DescriptionTable map[int]string

// Describe returns the label for category.
func (t DescriptionTable) Describe(category int) string {
	if s, ok := t[category]; ok {
		return s
	}
	return UnknownDescription
}

// Revised is the default table.
var Revised = DescriptionTable{
	0: "晴れ",
	1: "晴れ",
	2: "曇り",
	3: "小雨",
	4: "霧",
	5: "小雨",
	6: "雨",
	7: "雪",
	8: "雨",
	9: "雷雨",
}

// Classic is the earlier, coarser table.
var Classic = DescriptionTable{
	0: "快晴",
	1: "晴れ",
	2: "曇り",
	3: "小雨",
	4: "雨",
	5: "大雨",
	6: "雪",
	7: "大雪",
	8: "みぞれ",
	9: "雷雨",
}

var tables = map[string]DescriptionTable{
	"revised": Revised,
	"classic": Classic,
}

// TableNames lists the built-in table names in sorted order.
func TableNames() []string {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TableByName returns a copy of the named built-in table with overrides
// applied on top. An empty name selects "revised".
func TableByName(name string, overrides map[int]string) (DescriptionTable, error) {
	if name == "" {
		name = "revised"
	}
	base, ok := tables[name]
	if !ok {
		return nil, fmt.Errorf("weather: unknown description table %q", name)
	}
	out := make(DescriptionTable, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out, nil
}
