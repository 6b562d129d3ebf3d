package model

import "time"

// Supported chain symbols for address lookups.
const (
	SymbolBTC = "BTC"
	SymbolETH = "ETH"
)

// BalanceQuote is the result of an address balance lookup, valued in EUR.
// Change24h is the 24h price change of the coin in percent.
type BalanceQuote struct {
	Address      string    `json:"address"`
	Balance      float64   `json:"balance"`
	CurrentPrice float64   `json:"currentPrice"`
	ValueInEur   float64   `json:"valueInEur"`
	Change24h    float64   `json:"change24h"`
	Timestamp    time.Time `json:"timestamp"`
}

// SpotPrice is the EUR price of a coin and its 24h change in percent.
type SpotPrice struct {
	EUR          float64
	Change24hPct float64
}
