package retail

import (
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/width"

	"github.com/theirongolddev/brewburn/internal/model"
)

var (
	countPattern  = regexp.MustCompile(`(\d+)[\s\x{3000}]*本`)
	volumePattern = regexp.MustCompile(`(?i)(\d+)[\s\x{3000}]*(?:ml|㎖)`)
)

// Parse extracts the pack size and per-unit volume from a product name and
// derives the unit price. It never fails: a missing count means a single
// unit and a missing volume is reported as 0.
func Parse(name string, price decimal.Decimal) model.RetailItem {
	folded := width.Fold.String(name)

	item := model.RetailItem{
		Name:      name,
		Price:     price,
		UnitCount: 1,
	}
	if n, ok := firstInt(countPattern, folded); ok && n > 0 {
		item.UnitCount = n
		item.CountFound = true
	}
	if v, ok := firstInt(volumePattern, folded); ok {
		item.VolumeMl = v
		item.VolumeFound = true
	}
	item.UnitPrice = price.Div(decimal.NewFromInt(int64(item.UnitCount)))
	return item
}

func firstInt(re *regexp.Regexp, s string) (int, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
