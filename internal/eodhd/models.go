package eodhd

import (
	"time"
)

// EODData represents a single day's end-of-day price data.
type EODData struct {
	Date          time.Time `json:"-"`
	DateStr       string    `json:"date"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Close         float64   `json:"close"`
	AdjustedClose float64   `json:"adjusted_close"`
	Volume        int64     `json:"volume"`
}

// EODResponse is a slice of EODData.
type EODResponse []EODData

// RealTimeQuote is the delayed quote returned by /real-time/{symbol}.
// Numeric fields may arrive as "NA" for illiquid symbols, so they are decoded loosely.
type RealTimeQuote struct {
	Code          string     `json:"code"`
	Timestamp     int64      `json:"timestamp"`
	Open          LooseFloat `json:"open"`
	High          LooseFloat `json:"high"`
	Low           LooseFloat `json:"low"`
	Close         LooseFloat `json:"close"`
	PreviousClose LooseFloat `json:"previousClose"`
	Change        LooseFloat `json:"change"`
	ChangePercent LooseFloat `json:"change_p"`
}

// DividendData represents one ex-dividend row from /div/{symbol}.
// Date is the ex-dividend date; PaymentDate is only filled for some exchanges.
type DividendData struct {
	Date            time.Time `json:"-"`
	DateStr         string    `json:"date"`
	DeclarationDate string    `json:"declarationDate"`
	RecordDate      string    `json:"recordDate"`
	PaymentDate     string    `json:"paymentDate"`
	Period          string    `json:"period"`
	Value           float64   `json:"value"`
	UnadjustedValue float64   `json:"unadjustedValue"`
	Currency        string    `json:"currency"`
}

// DividendsResponse is a slice of DividendData.
type DividendsResponse []DividendData

// FundamentalsResponse holds the fundamentals sections used for dividend research.
type FundamentalsResponse struct {
	General         *GeneralInfo     `json:"General"`
	Highlights      *Highlights      `json:"Highlights"`
	SharesStats     *SharesStats     `json:"SharesStats"`
	SplitsDividends *SplitsDividends `json:"SplitsDividends"`
	Financials      *Financials      `json:"Financials"`
}

// GeneralInfo contains general company information.
type GeneralInfo struct {
	Code         string `json:"Code"`
	Type         string `json:"Type"`
	Name         string `json:"Name"`
	Exchange     string `json:"Exchange"`
	CurrencyCode string `json:"CurrencyCode"`
	CountryName  string `json:"CountryName"`
	Sector       string `json:"Sector"`
	Industry     string `json:"Industry"`
	IsDelisted   bool   `json:"IsDelisted"`
}

// Highlights contains key financial highlights.
type Highlights struct {
	MarketCapitalization float64 `json:"MarketCapitalization"`
	PERatio              float64 `json:"PERatio"`
	DividendShare        float64 `json:"DividendShare"`
	DividendYield        float64 `json:"DividendYield"`
	EarningsShare        float64 `json:"EarningsShare"`
	DilutedEpsTTM        float64 `json:"DilutedEpsTTM"`
}

// SharesStats contains share count information.
type SharesStats struct {
	SharesOutstanding float64 `json:"SharesOutstanding"`
	SharesFloat       float64 `json:"SharesFloat"`
}

// SplitsDividends contains forward dividend information and the provider's
// next-cycle dates. Missing dates arrive as "0000-00-00" or blank.
type SplitsDividends struct {
	ForwardAnnualDividendRate  float64 `json:"ForwardAnnualDividendRate"`
	ForwardAnnualDividendYield float64 `json:"ForwardAnnualDividendYield"`
	PayoutRatio                float64 `json:"PayoutRatio"`
	DividendDate               string  `json:"DividendDate"`
	ExDividendDate             string  `json:"ExDividendDate"`
	LastSplitFactor            string  `json:"LastSplitFactor"`
	LastSplitDate              string  `json:"LastSplitDate"`
}

// Financials contains financial statements.
type Financials struct {
	IncomeStatement *FinancialStatement `json:"Income_Statement"`
}

// FinancialStatement represents a financial statement with quarterly and yearly data
// keyed by period end date.
type FinancialStatement struct {
	Currency  string                            `json:"currency"`
	Quarterly map[string]map[string]interface{} `json:"quarterly"`
	Yearly    map[string]map[string]interface{} `json:"yearly"`
}
