// Package weather turns Open-Meteo daily forecasts into model.WeatherDay
// values.
package weather

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/theirongolddev/brewburn/internal/fetch"
	"github.com/theirongolddev/brewburn/internal/model"
)

const (
	DefaultBaseURL   = "https://api.open-meteo.com/v1/forecast"
	DefaultLatitude  = 35.5206
	DefaultLongitude = 139.7172
	WeekDays         = 7
)

// ErrNoData means the provider did not return a complete record for every
// requested day.
var ErrNoData = errors.New("weather: no data for requested window")

// Response is the subset of the forecast payload that is used.
type Response struct {
	Daily *Daily `json:"daily"`
}

// Daily holds parallel per-day arrays. Values may be null.
type Daily struct {
	Time        []string   `json:"time"`
	WeatherCode []*int     `json:"weather_code"`
	TempMax     []*float64 `json:"temperature_2m_max"`
}

// Options configures a Client.
type Options struct {
	BaseURL   string
	Latitude  float64
	Longitude float64
	Timezone  string
	Table     DescriptionTable
}

// Client fetches and normalizes forecasts for one location.
type Client struct {
	fetch    *fetch.Client
	baseURL  string
	lat, lon float64
	timezone string
	table    DescriptionTable
}

// NewClient returns a Client using f for transport.
func NewClient(f *fetch.Client, opts Options) *Client {
	c := &Client{
		fetch:    f,
		baseURL:  opts.BaseURL,
		lat:      opts.Latitude,
		lon:      opts.Longitude,
		timezone: opts.Timezone,
		table:    opts.Table,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.timezone == "" {
		c.timezone = "auto"
	}
	if c.table == nil {
		c.table = Revised
	}
	return c
}

// Week returns the seven days starting at start.
func (c *Client) Week(ctx context.Context, start time.Time) ([]model.WeatherDay, error) {
	return c.Window(ctx, start, WeekDays)
}

// Day returns the forecast for a single date.
func (c *Client) Day(ctx context.Context, date time.Time) (model.WeatherDay, error) {
	days, err := c.Window(ctx, date, 1)
	if err != nil {
		return model.WeatherDay{}, err
	}
	return days[0], nil
}

// Window returns one WeatherDay per day in [start, start+days), ascending.
// Either every day is present or the result is empty with ErrNoData.
func (c *Client) Window(ctx context.Context, start time.Time, days int) ([]model.WeatherDay, error) {
	if days <= 0 {
		return nil, fmt.Errorf("weather: window of %d days", days)
	}
	start = model.DateOf(start)
	end := start.AddDate(0, 0, days-1)

	params := url.Values{
		"latitude":   {strconv.FormatFloat(c.lat, 'f', -1, 64)},
		"longitude":  {strconv.FormatFloat(c.lon, 'f', -1, 64)},
		"daily":      {"weather_code,temperature_2m_max"},
		"timezone":   {c.timezone},
		"start_date": {start.Format(model.DateLayout)},
		"end_date":   {end.Format(model.DateLayout)},
	}

	var resp Response
	if err := c.fetch.GetJSON(ctx, c.baseURL, params, &resp); err != nil {
		return nil, err
	}
	return Normalize(resp, start, days, c.table)
}

// Normalize converts resp into WeatherDays for [start, start+days).
func Normalize(resp Response, start time.Time, days int, table DescriptionTable) ([]model.WeatherDay, error) {
	if resp.Daily == nil {
		return nil, ErrNoData
	}
	d := resp.Daily

	index := make(map[string]int, len(d.Time))
	for i, s := range d.Time {
		if _, seen := index[s]; !seen {
			index[s] = i
		}
	}

	start = model.DateOf(start)
	out := make([]model.WeatherDay, 0, days)
	for i := range days {
		date := start.AddDate(0, 0, i)
		j, ok := index[date.Format(model.DateLayout)]
		if !ok || j >= len(d.WeatherCode) || j >= len(d.TempMax) {
			return nil, fmt.Errorf("%w: %s missing", ErrNoData, date.Format(model.DateLayout))
		}
		code, temp := d.WeatherCode[j], d.TempMax[j]
		if code == nil || temp == nil || *code < 0 {
			return nil, fmt.Errorf("%w: %s incomplete", ErrNoData, date.Format(model.DateLayout))
		}
		out = append(out, newDay(date, *code, *temp, table))
	}
	return out, nil
}

func newDay(date time.Time, code int, tempMax float64, table DescriptionTable) model.WeatherDay {
	category := code / 10
	return model.WeatherDay{
		Date:        date,
		Weekday:     date.Weekday(),
		RawCode:     code,
		Category:    category,
		Description: table.Describe(category),
		TempMax:     tempMax,
	}
}
