package eodhd

import (
	"sort"
	"strings"
	"time"

	"github.com/ternarybob/divcast/internal/dividend"
)

// PriceData is the price snapshot assembled from the quote and EOD endpoints.
type PriceData struct {
	Current       float64
	PreviousClose float64
}

// ToStockInfo maps fundamentals and prices onto the key/value snapshot the
// dividend engine reads. Zero values are omitted so look-ups fall through to
// the next source.
func ToStockInfo(symbol string, f *FundamentalsResponse, price PriceData) dividend.StockInfo {
	info := dividend.StockInfo{"symbol": symbol}

	set := func(key string, v float64) {
		if v != 0 {
			info[key] = v
		}
	}
	setString := func(key, v string) {
		if v != "" {
			info[key] = v
		}
	}

	set("currentPrice", price.Current)
	set("regularMarketPrice", price.Current)
	set("previousClose", price.PreviousClose)

	if f == nil {
		return info
	}

	if g := f.General; g != nil {
		setString("longName", g.Name)
		setString("sector", g.Sector)
		setString("industry", g.Industry)
		setString("currency", g.CurrencyCode)
		setString("exchange", g.Exchange)
		setString("quoteType", g.Type)
		setString("country", g.CountryName)
	}

	if h := f.Highlights; h != nil {
		set("yield", h.DividendYield)
		set("marketCap", h.MarketCapitalization)
		set("trailingPE", h.PERatio)
		eps := h.EarningsShare
		if eps == 0 {
			eps = h.DilutedEpsTTM
		}
		set("trailingEps", eps)
	}

	if s := f.SharesStats; s != nil {
		set("sharesOutstanding", s.SharesOutstanding)
	}

	if sd := f.SplitsDividends; sd != nil {
		set("dividendRate", sd.ForwardAnnualDividendRate)
		set("dividendYield", sd.ForwardAnnualDividendYield)
		set("payoutRatio", sd.PayoutRatio)
		if ex := parseDate(sd.ExDividendDate); ex != nil {
			info["exDividendDate"] = ex.Unix()
		}
	}

	set("netIncome", latestNetIncome(f.Financials))

	return info
}

// latestNetIncome returns netIncome from the most recent yearly income statement.
func latestNetIncome(fin *Financials) float64 {
	if fin == nil || fin.IncomeStatement == nil || len(fin.IncomeStatement.Yearly) == 0 {
		return 0
	}

	periods := make([]string, 0, len(fin.IncomeStatement.Yearly))
	for period := range fin.IncomeStatement.Yearly {
		periods = append(periods, period)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(periods)))

	for _, period := range periods {
		if v, ok := dividend.StockInfo(fin.IncomeStatement.Yearly[period]).Float("netIncome"); ok {
			return v
		}
	}
	return 0
}

// ToCalendar builds the forward calendar. The fundamentals' next-cycle dates
// are preferred; when either is missing both are taken from the newest
// dividend row that carries a payment date.
func ToCalendar(f *FundamentalsResponse, divs DividendsResponse) dividend.Calendar {
	var cal dividend.Calendar
	if f != nil && f.SplitsDividends != nil {
		cal.ExDividendDate = parseDate(f.SplitsDividends.ExDividendDate)
		cal.DividendDate = parseDate(f.SplitsDividends.DividendDate)
	}
	if cal.HasBoth() {
		return cal
	}

	for i := len(divs) - 1; i >= 0; i-- {
		pay := parseDate(divs[i].PaymentDate)
		ex := parseDate(divs[i].DateStr)
		if pay != nil && ex != nil {
			return dividend.Calendar{ExDividendDate: ex, DividendDate: pay}
		}
	}
	return cal
}

// ToSeries converts dividend rows into a normalised ex-dividend series,
// preferring the split-adjusted value.
func ToSeries(divs DividendsResponse) dividend.Series {
	events := make([]dividend.ExDividendEvent, 0, len(divs))
	for _, d := range divs {
		date := d.Date
		if date.IsZero() {
			parsed := parseDate(d.DateStr)
			if parsed == nil {
				continue
			}
			date = *parsed
		}
		amount := d.Value
		if amount == 0 {
			amount = d.UnadjustedValue
		}
		events = append(events, dividend.ExDividendEvent{Date: date, Amount: amount})
	}
	return dividend.NewSeries(events)
}

// parseDate parses YYYY-MM-DD, treating blank and "0000-00-00" as absent.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "0000") {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
