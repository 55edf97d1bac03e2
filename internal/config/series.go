package config

// RecessionIndicator is the NBER recession indicator series. It is
// stored like any other series but never contributes to outlook
// categories; it supplies the realized labels for the history chart.
const RecessionIndicator = "USREC"

// LevelSeries lists the series that represent absolute magnitudes.
// They are non-stationary and are converted to year-over-year growth
// before modeling, matching the classifier's training-time transform.
var LevelSeries = []string{
	"PAYEMS", "AHETPI", "PCE", "DSPIC96", "CPIAUCSL", "CPILFESL",
	"M2REAL", "WM2NS", "INDPRO", "IPMAN", "HOUST", "PERMIT",
	"WPSFD49207",
}

// CategoryMembership maps each dashboard category to its member
// series.
var CategoryMembership = map[string][]string{
	"labor":      {"UNRATE", "PAYEMS", "AHETPI", "IC4WSA"},
	"consumer":   {"PCE", "DSPIC96", "CSCICP03USM665S"},
	"inflation":  {"CPIAUCSL", "CPILFESL", "WPSFD49207"},
	"rates":      {"FEDFUNDS", "T10Y2Y", "GS10", "AAA10Y"},
	"money":      {"M2REAL", "WM2NS"},
	"production": {"INDPRO", "IPMAN"},
	"housing":    {"HOUST", "PERMIT"},
}

// SeriesNames holds display names for the dashboard.
var SeriesNames = map[string]string{
	"UNRATE":          "Unemployment Rate",
	"PAYEMS":          "Nonfarm Payrolls",
	"AHETPI":          "Hourly Wages",
	"IC4WSA":          "Jobless Claims",
	"PCE":             "Personal Consumption",
	"DSPIC96":         "Disposable Income",
	"CPIAUCSL":        "CPI (Inflation)",
	"CPILFESL":        "Core CPI",
	"CSCICP03USM665S": "Consumer Confidence",
	"FEDFUNDS":        "Fed Funds Rate",
	"GS10":            "10-Year Treasury",
	"T10Y2Y":          "Yield Curve Spread",
	"AAA10Y":          "Corporate Bond Spread",
	"M2REAL":          "Real Money Supply (M2)",
	"WM2NS":           "Money Supply",
	"INDPRO":          "Industrial Production",
	"IPMAN":           "Manufacturing Output",
	"WPSFD49207":      "Producer Prices (PPI)",
	"HOUST":           "Housing Starts",
	"PERMIT":          "Building Permits",
	"USREC":           "Recession Status",
}

// AllSeriesIDs returns every series the fetcher loads: all category
// members plus the recession indicator, deterministically ordered.
func AllSeriesIDs() []string {
	seen := map[string]bool{RecessionIndicator: true}
	ids := []string{RecessionIndicator}
	for _, category := range categoryOrder() {
		for _, id := range CategoryMembership[category] {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// PipelineSeriesIDs returns the series the prediction pipeline reads:
// everything except the realized indicator.
func PipelineSeriesIDs() []string {
	all := AllSeriesIDs()
	out := make([]string, 0, len(all)-1)
	for _, id := range all {
		if id != RecessionIndicator {
			out = append(out, id)
		}
	}
	return out
}

func categoryOrder() []string {
	return []string{"labor", "consumer", "inflation", "rates", "money", "production", "housing"}
}
