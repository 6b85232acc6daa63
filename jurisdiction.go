package ibkrtax

// exchanges maps the broker's exchange codes to the country where the trade is taxed as foreign income.
var exchanges = map[string]string{
	"FWB":     "Germany",
	"TGATE":   "Germany",
	"GETTEX":  "Germany",
	"GETTEX2": "Germany",
	"IBIS":    "Germany",
	"IBIS2":   "Germany",
	"BVME":    "Italy",
	"ISLAND":  "USA",
	"DARK":    "USA",
	"EUDARK":  "USA",
	"BYX":     "USA",
	"IBKRATS": "USA",
	"IEX":     "USA",
	"IDEALFX": "USA",
	"NYSE":    "USA",
	"ARCA":    "USA",
	"NASDAQ":  "USA",
	"BATS":    "USA",
	"EDGX":    "USA",
	"AMEX":    "USA",
}

// Jurisdiction returns the country of an exchange. Unknown codes are returned unchanged.
func Jurisdiction(exchange string) string {
	if country, ok := exchanges[exchange]; ok {
		return country
	}
	return exchange
}
