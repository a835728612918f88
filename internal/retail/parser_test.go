package retail

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		price       int64
		wantCount   int
		countFound  bool
		wantVolume  int
		volumeFound bool
		wantUnit    string
	}{
		{"Lager 350ml 24本", 4800, 24, true, 350, true, "200"},
		{"プレミアム 500ml×6本 セット", 1500, 6, true, 500, true, "250"},
		{"クラフトビール 330ML", 480, 1, false, 330, true, "480"},
		{"Craft Ale", 600, 1, false, 0, false, "600"},
		{"全角 ３５０ｍｌ １２本", 2400, 12, true, 350, true, "200"},
		{"セット 3 本", 1000, 3, true, 0, false, "333.3333333333333333"},
		{"缶 0本", 300, 1, false, 0, false, "300"},
		{"350㎖ 2本", 400, 2, true, 350, true, "200"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := Parse(tt.name, decimal.NewFromInt(tt.price))
			assert.Equal(t, tt.name, item.Name)
			assert.Equal(t, tt.wantCount, item.UnitCount)
			assert.Equal(t, tt.countFound, item.CountFound)
			assert.Equal(t, tt.wantVolume, item.VolumeMl)
			assert.Equal(t, tt.volumeFound, item.VolumeFound)
			assert.Equal(t, tt.wantUnit, item.UnitPrice.String())
		})
	}
}

func TestParse_UnitPriceTimesCountIsPrice(t *testing.T) {
	price := decimal.NewFromInt(4800)
	item := Parse("ビール 350ml 24本", price)
	assert.True(t, item.UnitPrice.Mul(decimal.NewFromInt(int64(item.UnitCount))).Equal(price))
}

func TestParse_UnevenUnitPriceRoundsBackToPrice(t *testing.T) {
	// 5980/24 does not terminate, so the product is only equal to the
	// price at yen precision.
	price := decimal.NewFromInt(5980)
	item := Parse("ビール 350ml 24本", price)
	assert.Equal(t, "249.1666666666666667", item.UnitPrice.String())

	back := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.UnitCount)))
	assert.False(t, back.Equal(price))
	assert.True(t, back.Round(2).Equal(price))
}
