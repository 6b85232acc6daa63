package renderer

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/etnz/ibkrtax"
	md "github.com/nao1215/markdown"
)

// GainsOptions holds configuration for rendering realized gains.
type GainsOptions struct {
	Year      int  // Render only this tax year, all years if zero.
	Details   bool // List every realized gain below the year totals.
	Positions bool // Append the positions still open.
}

// GainsMarkdown renders the realized gains per tax year and jurisdiction.
func GainsMarkdown(r *ibkrtax.Result, opts GainsOptions) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Realized Gains")
	doc.PlainText(fmt.Sprintf("Amounts in %s, matched first in first out.", r.Domestic))

	var years []int
	for _, year := range r.Report.Years() {
		if opts.Year == 0 || opts.Year == year {
			years = append(years, year)
		}
	}
	if len(years) == 0 {
		doc.PlainText("No realized gains.")
	}

	for _, year := range years {
		doc.H2(strconv.Itoa(year))
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
			Header:    []string{"Jurisdiction", "Proceeds", "Cost", "Income"},
		}
		for _, country := range r.Report.Jurisdictions(year) {
			t := r.Report.Totals(year, country)
			table.Rows = append(table.Rows, []string{country, t.Proceeds.String(), t.Cost.String(), t.Income().SignedString()})
		}
		total := r.Report.YearTotals(year)
		table.Rows = append(table.Rows, []string{
			md.Bold("Total"),
			md.Bold(total.Proceeds.String()),
			md.Bold(total.Cost.String()),
			md.Bold(total.Income().SignedString()),
		})
		doc.Table(table)

		if opts.Details {
			doc.H3("Disposals")
			doc.Table(gainsTable(r.Year(year)))
		}
	}

	if opts.Positions && len(r.Positions) > 0 {
		doc.H2("Open Positions")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
			Header:    []string{"Symbol", "Quantity", "Lots", "Cost Basis"},
		}
		for _, p := range r.Positions {
			table.Rows = append(table.Rows, []string{p.Symbol, p.Quantity().String(), strconv.Itoa(len(p.Lots)), p.Cost().String()})
		}
		doc.Table(table)
	}

	return doc.String()
}

func gainsTable(gains []ibkrtax.RealizedGain) md.TableSet {
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft, md.AlignLeft, md.AlignLeft,
			md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight,
		},
		Header: []string{"Date", "Symbol", "Exchange", "Quantity", "Proceeds", "Cost", "Income"},
	}
	for _, g := range gains {
		table.Rows = append(table.Rows, []string{
			g.Date.String(),
			g.Symbol,
			g.Exchange,
			g.Quantity.String(),
			g.Proceeds.String(),
			g.Cost.String(),
			g.Income().SignedString(),
		})
	}
	return table
}
