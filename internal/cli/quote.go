package cli

import (
	"context"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"options-pricer/internal/models"
	"options-pricer/internal/validation"
	"options-pricer/pkg/utils"
)

// quoteResult is the JSON shape of the quote command.
type quoteResult struct {
	Quote         *models.Quote       `json:"quote"`
	Change        float64             `json:"change"`
	ChangePercent float64             `json:"change_percent"`
	MarketStatus  models.MarketStatus `json:"market_status"`
	NextOpen      *time.Time          `json:"next_open,omitempty"`
	History       []models.Quote      `json:"history,omitempty"`
}

func newQuoteCmd(app *App) *cobra.Command {
	var history int

	cmd := &cobra.Command{
		Use:   "quote <symbol>",
		Short: "Show the current price of an underlying",
		Example: `  pricer quote SPY
  pricer quote AAPL --history 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			symbol, err := validation.ValidateSymbol(args[0])
			if err != nil {
				return err
			}

			provider, err := app.quoteProvider()
			if err != nil {
				return err
			}
			quote, err := provider.GetQuote(ctx, symbol)
			if err != nil {
				return err
			}

			result := quoteResult{
				Quote:        quote,
				MarketStatus: utils.MarketStatusAt(app.Now()),
			}
			if result.MarketStatus != models.MarketOpen {
				next := utils.NextMarketOpen(app.Now())
				result.NextOpen = &next
			}
			if quote.Close > 0 {
				result.Change = quote.LTP - quote.Close
				result.ChangePercent = utils.PercentChange(quote.Close, quote.LTP)
			}

			output := app.output(cmd)
			if history > 0 {
				if app.Store == nil {
					output.Warning("Quote history needs the quote cache (quotes.cache_enabled)")
				} else {
					result.History, err = app.Store.GetQuoteHistory(ctx, symbol, history)
					if err != nil {
						return err
					}
				}
			}

			if output.IsJSON() {
				return output.JSON(result)
			}
			printQuote(output, result, app.Now())
			return nil
		},
	}

	cmd.Flags().IntVar(&history, "history", 0, "also show the last N cached quotes")
	return cmd
}

func printQuote(output *Output, r quoteResult, now time.Time) {
	q := r.Quote
	output.Printf("%s  %s  %s\n", output.paint(q.Symbol, color.Bold), utils.FormatCurrency(q.LTP), output.MarketStatus(string(r.MarketStatus)))
	if q.Close > 0 {
		change := utils.FormatChange(r.Change) + " (" + utils.FormatPercent(r.ChangePercent) + ")"
		output.Printf("  Change:      %s\n", output.ChangeColor(r.Change, change))
		output.Printf("  Prev close:  %s\n", utils.FormatCurrency(q.Close))
	}
	if r.NextOpen != nil {
		output.Printf("  Next open:   %s\n", r.NextOpen.Format("Mon 2006-01-02 15:04 MST"))
	}
	output.Printf("  Source:      %s\n", q.Source)
	asOf := q.Timestamp.Local().Format("2006-01-02 15:04:05")
	if age := now.Sub(q.Timestamp); age >= 0 {
		asOf += output.DimText(" (" + FormatDuration(age) + " ago)")
	}
	output.Printf("  As of:       %s\n", asOf)

	if len(r.History) == 0 {
		return
	}
	output.Println()
	table := NewTable(output, "Fetched", "Price", "Source")
	for _, h := range r.History {
		table.AddRow(h.Timestamp.Local().Format("2006-01-02 15:04:05"), utils.FormatCurrency(h.LTP), h.Source)
	}
	table.Render()
}
