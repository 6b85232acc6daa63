package renderer

import (
	"bytes"

	"github.com/etnz/ibkrtax"
	md "github.com/nao1215/markdown"
)

// TradesMarkdown renders valued trades, oldest first.
func TradesMarkdown(txs []ibkrtax.Transaction) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Trades")
	if len(txs) == 0 {
		doc.PlainText("No trades.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft,
			md.AlignRight, md.AlignRight, md.AlignRight,
		},
		Header: []string{"Date", "Symbol", "Exchange", "Currency", "Quantity", "Unit Cost", "Value"},
	}
	for _, tx := range txs {
		table.Rows = append(table.Rows, []string{
			tx.Date.String(),
			tx.Symbol,
			tx.Exchange,
			tx.Currency,
			tx.Quantity.String(),
			tx.UnitCost.String(),
			tx.UnitCost.Mul(tx.Quantity.Abs()).String(),
		})
	}
	doc.Table(table)
	return doc.String()
}
