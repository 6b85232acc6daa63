package ibkrtax

import (
	"encoding/json"
	"maps"
	"slices"
	"strconv"
)

// Totals accumulates realized proceeds and costs.
type Totals struct {
	Proceeds Money
	Cost     Money
}

// Income returns Proceeds minus Cost, negative for a loss.
func (t Totals) Income() Money { return t.Proceeds.Sub(t.Cost) }

func (t Totals) add(proceeds, cost Money) Totals {
	return Totals{Proceeds: t.Proceeds.Add(proceeds), Cost: t.Cost.Add(cost)}
}

func (t Totals) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("proceeds", t.Proceeds)
	w.Append("cost", t.Cost)
	w.Append("income", t.Income())
	return w.MarshalJSON()
}

// Report groups realized gains by tax year and jurisdiction.
//
// Its zero value is an empty report ready to use.
type Report struct {
	years map[int]map[string]Totals
}

// Fold adds a realized gain to the totals of its year and jurisdiction.
func (r *Report) Fold(g RealizedGain) {
	if r.years == nil {
		r.years = make(map[int]map[string]Totals)
	}
	byCountry, ok := r.years[g.Year]
	if !ok {
		byCountry = make(map[string]Totals)
		r.years[g.Year] = byCountry
	}
	country := Jurisdiction(g.Exchange)
	byCountry[country] = byCountry[country].add(g.Proceeds, g.Cost)
}

// Years returns the tax years with realized gains, in ascending order.
func (r *Report) Years() []int {
	return slices.Sorted(maps.Keys(r.years))
}

// Jurisdictions returns the jurisdictions with realized gains in year, sorted.
func (r *Report) Jurisdictions(year int) []string {
	return slices.Sorted(maps.Keys(r.years[year]))
}

// Totals returns the totals of a year and jurisdiction.
func (r *Report) Totals(year int, jurisdiction string) Totals {
	return r.years[year][jurisdiction]
}

// YearTotals returns the totals of a year across all jurisdictions.
func (r *Report) YearTotals(year int) Totals {
	var total Totals
	for _, t := range r.years[year] {
		total = total.add(t.Proceeds, t.Cost)
	}
	return total
}

// MarshalJSON writes years and jurisdictions in ascending order.
func (r *Report) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	for _, year := range r.Years() {
		var yw jsonObjectWriter
		for _, country := range r.Jurisdictions(year) {
			yw.Append(country, r.Totals(year, country))
		}
		raw, err := yw.MarshalJSON()
		if err != nil {
			return nil, err
		}
		w.Append(strconv.Itoa(year), json.RawMessage(raw))
	}
	return w.MarshalJSON()
}
