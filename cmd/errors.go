package cmd

import (
	"errors"

	"github.com/theirongolddev/brewburn/internal/fetch"
	"github.com/theirongolddev/brewburn/internal/ledger"
	"github.com/theirongolddev/brewburn/internal/retail"
	"github.com/theirongolddev/brewburn/internal/weather"
)

// describeError turns the sentinel errors users can act on into a hint.
// Anything else is shown as is.
func describeError(err error) string {
	var status *fetch.StatusError
	switch {
	case errors.Is(err, fetch.ErrTransient):
		return "data unavailable, the service did not answer after several attempts; try again later"
	case errors.Is(err, retail.ErrNoApplicationID):
		return "item search needs a Rakuten application ID; set RAKUTEN_APP_ID or run: brewburn setup"
	case errors.Is(err, retail.ErrNoItems):
		return "no items matched that keyword"
	case errors.Is(err, retail.ErrEmptyKeyword):
		return "enter a keyword to search for"
	case errors.Is(err, weather.ErrNoData):
		return "no weather data for the selected week"
	case errors.Is(err, ledger.ErrOutOfRange), errors.Is(err, ledger.ErrNotFound):
		return "no such ledger entry; list them with: brewburn ledger"
	case errors.Is(err, ledger.ErrAmbiguous):
		return "that ID prefix matches more than one entry; use more characters"
	case errors.Is(err, ledger.ErrEmpty):
		return "the ledger is empty"
	case errors.As(err, &status):
		return "request rejected by " + status.URL + ": " + err.Error()
	}
	return err.Error()
}
