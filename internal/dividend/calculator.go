package dividend

import (
	"fmt"
	"time"
)

// Rate and payout methods.
const (
	MethodDirectFromInfo       = "direct_from_info"
	MethodPriceAndYieldProduct = "price_and_yield_product"
	MethodFailedNotEnoughData  = "failed_not_enough_data"
	MethodNoDividendRate       = "no_dividend_rate"
	MethodEPSBased             = "eps_based"
	MethodIncomeBased          = "income_based"
)

// DividendRate calculates the annual dividend rate, trying in order the rate
// reported by the provider, price times yield, and annualised recent history
// for the detected frequency.
func DividendRate(price *float64, info StockInfo, series Series, frequency Frequency) (*float64, string) {
	if rate, ok := info.Float("dividendRate"); ok {
		return &rate, MethodDirectFromInfo
	}

	if price != nil && *price != 0 {
		if yield, ok := info.FirstFloat("dividendYield", "yield"); ok {
			rate := round(*price*yield, 4)
			return &rate, MethodPriceAndYieldProduct
		}
	}

	if len(series) > 0 && frequency != FrequencyNone {
		if rate, ok := annualize(series.Tail(12), frequency); ok {
			return &rate, fmt.Sprintf("historical_%s_calculation", frequency)
		}
	}

	return nil, MethodFailedNotEnoughData
}

// annualize converts the most recent payments to an annual amount: the last
// PaymentsNeeded() payments, scaled up when fewer are available.
func annualize(recent Series, frequency Frequency) (float64, bool) {
	if !frequency.IsValid() {
		return 0, false
	}

	needed := frequency.PaymentsNeeded()
	year := recent.Tail(needed)
	if len(year) == 0 {
		return 0, false
	}

	rate := round(year.Sum()*(float64(needed)/float64(len(year))), 4)
	if rate == 0 {
		return 0, false
	}
	return rate, true
}

// PayoutRatio calculates the share of earnings paid out as dividends, trying
// the provider's ratio, then rate over trailing EPS, then rate over net income
// per share.
func PayoutRatio(info StockInfo, dividendRate *float64) (*float64, string) {
	if ratio, ok := info.Float("payoutRatio"); ok {
		return &ratio, MethodDirectFromInfo
	}

	if dividendRate == nil || *dividendRate == 0 {
		return nil, MethodNoDividendRate
	}
	rate := *dividendRate

	if eps, ok := info.Float("trailingEps"); ok {
		ratio := round(rate/eps, 4)
		return &ratio, MethodEPSBased
	}

	shares, hasShares := info.Float("sharesOutstanding")
	netIncome, hasIncome := info.Float("netIncome")
	if hasShares && hasIncome {
		perShare := netIncome / shares
		if perShare != 0 {
			ratio := round(rate/perShare, 4)
			return &ratio, MethodIncomeBased
		}
	}

	return nil, MethodFailedNotEnoughData
}

// LatestExDate returns the most recent ex-dividend date as YYYY-MM-DD, taken
// from the calendar, the info snapshot's exDividendDate (unix seconds), or the
// last series entry. Returns "" when none is available.
func LatestExDate(info StockInfo, calendar *Calendar, series Series) string {
	if calendar != nil && calendar.ExDividendDate != nil {
		return calendar.ExDividendDate.Format(isoDate)
	}

	if ts, ok := info.Float("exDividendDate"); ok {
		return time.Unix(int64(ts), 0).UTC().Format(isoDate)
	}

	if last, ok := series.Last(); ok {
		return last.Date.Format(isoDate)
	}
	return ""
}
