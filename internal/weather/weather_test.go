package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/brewburn/internal/fetch"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func TestNormalize_CategoryAndDescription(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	resp := Response{Daily: &Daily{
		Time:        []string{"2024-07-01", "2024-07-02", "2024-07-03"},
		WeatherCode: []*int{intp(0), intp(63), intp(95)},
		TempMax:     []*float64{floatp(30.5), floatp(22), floatp(18.2)},
	}}

	days, err := Normalize(resp, start, 3, Revised)
	require.NoError(t, err)
	require.Len(t, days, 3)

	assert.Equal(t, 0, days[0].Category)
	assert.Equal(t, "晴れ", days[0].Description)
	assert.Equal(t, time.Monday, days[0].Weekday)

	assert.Equal(t, 63, days[1].RawCode)
	assert.Equal(t, 6, days[1].Category)
	assert.Equal(t, "雨", days[1].Description)

	assert.Equal(t, 9, days[2].Category)
	assert.Equal(t, "雷雨", days[2].Description)
	assert.InDelta(t, 18.2, days[2].TempMax, 1e-9)
}

func TestNormalize_CategoryIsCodeDivTen(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	for code := 0; code <= 99; code++ {
		resp := Response{Daily: &Daily{
			Time:        []string{"2024-07-01"},
			WeatherCode: []*int{intp(code)},
			TempMax:     []*float64{floatp(20)},
		}}
		days, err := Normalize(resp, start, 1, Classic)
		require.NoError(t, err)
		assert.Equal(t, code/10, days[0].Category, "code %d", code)
	}
}

func TestNormalize_MissingData(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		resp Response
	}{
		{"no daily key", Response{}},
		{"short arrays", Response{Daily: &Daily{
			Time:        []string{"2024-07-01", "2024-07-02"},
			WeatherCode: []*int{intp(1)},
			TempMax:     []*float64{floatp(20), floatp(21)},
		}}},
		{"missing date", Response{Daily: &Daily{
			Time:        []string{"2024-07-01", "2024-07-03"},
			WeatherCode: []*int{intp(1), intp(1)},
			TempMax:     []*float64{floatp(20), floatp(21)},
		}}},
		{"null temperature", Response{Daily: &Daily{
			Time:        []string{"2024-07-01", "2024-07-02"},
			WeatherCode: []*int{intp(1), intp(1)},
			TempMax:     []*float64{floatp(20), nil},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := Normalize(tt.resp, start, 2, Revised)
			assert.ErrorIs(t, err, ErrNoData)
			assert.Empty(t, days)
		})
	}
}

func TestTableByName(t *testing.T) {
	table, err := TableByName("classic", map[int]string{9: "thunder", 12: "hail"})
	require.NoError(t, err)
	assert.Equal(t, "快晴", table.Describe(0))
	assert.Equal(t, "thunder", table.Describe(9))
	assert.Equal(t, "hail", table.Describe(12))
	assert.Equal(t, UnknownDescription, table.Describe(10))
	assert.Equal(t, "雷雨", Classic.Describe(9), "overrides must not mutate built-ins")

	def, err := TableByName("", nil)
	require.NoError(t, err)
	assert.Equal(t, "霧", def.Describe(4))

	_, err = TableByName("nope", nil)
	assert.Error(t, err)
}

func TestClient_Week(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"daily":{
			"time":["2024-07-01","2024-07-02","2024-07-03","2024-07-04","2024-07-05","2024-07-06","2024-07-07"],
			"weather_code":[0,1,2,3,45,61,71],
			"temperature_2m_max":[10,12,15,18,22,19,14]}}`))
	}))
	defer srv.Close()

	f := fetch.NewClient(fetch.Options{Cache: fetch.NewMemoryCache(), BaseDelay: time.Millisecond})
	c := NewClient(f, Options{BaseURL: srv.URL, Latitude: DefaultLatitude, Longitude: DefaultLongitude})

	days, err := c.Week(context.Background(), time.Date(2024, 7, 1, 9, 30, 0, 0, time.Local))
	require.NoError(t, err)
	require.Len(t, days, 7)
	assert.Equal(t, "2024-07-07", days[6].Date.Format("2006-01-02"))
	assert.Equal(t, "霧", days[4].Description)

	assert.Equal(t, []string{"2024-07-01"}, gotQuery["start_date"])
	assert.Equal(t, []string{"2024-07-07"}, gotQuery["end_date"])
	assert.Equal(t, []string{"weather_code,temperature_2m_max"}, gotQuery["daily"])
	assert.Equal(t, []string{"auto"}, gotQuery["timezone"])
}

func TestClient_DayNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":true,"reason":"out of range"}`))
	}))
	defer srv.Close()

	f := fetch.NewClient(fetch.Options{Cache: fetch.NewMemoryCache()})
	c := NewClient(f, Options{BaseURL: srv.URL})

	_, err := c.Day(context.Background(), time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, errors.Is(err, ErrNoData))
}
