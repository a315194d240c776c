package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	apperrors "options-pricer/internal/errors"
	"options-pricer/internal/logging"
	"options-pricer/internal/models"
	"options-pricer/internal/pricing"
	"options-pricer/internal/validation"
)

// Interactive prompts, asked in this order.
const (
	promptTicker = "Enter the ticker symbol of the underlying stock or ETF: "
	promptStrike = "Enter the strike price of the option: "
	promptExpiry = "Enter the date of expiry: (e.g. YYYY/MM/DD) "
	promptRange  = "Enter the range of potential underlying prices: (e.g 100-200) "
	promptType   = "Enter which option you are going long ((C)all or (P)ut?) "
)

// gridFlags holds the raw flag values of the grid command. Empty strings are prompted for.
type gridFlags struct {
	ticker     string
	spot       string
	strike     string
	expiry     string
	optType    string
	priceRange string
	today      string
}

func newGridCmd(app *App) *cobra.Command {
	var flags gridFlags

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Print theoretical option values across prices and days to expiry",
		Long: `Print a grid of Black-Scholes values for one option contract.

Rows are hypothetical underlying prices between the low and high bound of
--range; columns are every calendar day from today through expiry. Values not
given as flags are prompted for.`,
		Example: `  pricer grid
  pricer grid --ticker SPY --strike 450 --expiry 2026/12/18 --range 400-500 --type C
  pricer grid --spot 101.5 --strike 100 --expiry 2026/11/20 --range 90-110 --type P --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrid(cmd, app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.ticker, "ticker", "", "underlying ticker symbol")
	cmd.Flags().StringVar(&flags.spot, "spot", "", "underlying price (skips the quote lookup)")
	cmd.Flags().StringVar(&flags.strike, "strike", "", "strike price")
	cmd.Flags().StringVar(&flags.expiry, "expiry", "", "expiry date (YYYY/MM/DD)")
	cmd.Flags().StringVar(&flags.optType, "type", "", "option type: C (call) or P (put)")
	cmd.Flags().StringVar(&flags.priceRange, "range", "", "underlying price range low-high, e.g. 100-200")
	cmd.Flags().StringVar(&flags.today, "today", "", "evaluation date (YYYY/MM/DD, default: today)")
	addModelFlags(cmd)

	return cmd
}

// addModelFlags registers per-run overrides of the model parameters.
func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("volatility", 0, "annualised volatility override, e.g. 0.25")
	cmd.Flags().Float64("rate", 0, "risk-free rate override, e.g. 0.045")
}

func mustFloat(cmd *cobra.Command, name string) float64 {
	v, _ := cmd.Flags().GetFloat64(name)
	return v
}

// newEngine builds an engine from config and any --volatility / --rate overrides.
func (a *App) newEngine(cmd *cobra.Command) (*pricing.Engine, error) {
	params := a.Config.Params()
	if cmd.Flags().Changed("volatility") {
		params.Volatility = mustFloat(cmd, "volatility")
	}
	if cmd.Flags().Changed("rate") {
		params.RiskFreeRate = mustFloat(cmd, "rate")
	}

	model, err := pricing.NewModel(params)
	if err != nil {
		return nil, err
	}
	return pricing.NewEngine(model, a.Config.Pricing.ExpiryEpsilon, a.Logger), nil
}

// today returns the evaluation date from --today or the clock.
func (a *App) today(raw string) (time.Time, error) {
	if raw == "" {
		return a.Now(), nil
	}
	// Past dates are allowed here.
	return validation.ParseExpiry(raw, time.Time{})
}

func runGrid(cmd *cobra.Command, app *App, flags gridFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	output := app.output(cmd)
	logger := logging.WithOperation(app.Logger, "grid")

	engine, err := app.newEngine(cmd)
	if err != nil {
		return err
	}

	today, err := app.today(flags.today)
	if err != nil {
		return err
	}

	prompter := NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr(), app.Config.UI.MaxPromptAttempts).WithOutput(output)
	req, err := collectRequest(ctx, app, prompter, flags, today)
	if err != nil {
		return err
	}

	start := time.Now()
	report, err := engine.Evaluate(ctx, req)
	if err != nil {
		return err
	}
	logging.LogEvaluation(logging.WithSymbol(logger, req.Contract.Underlying), report, time.Since(start))

	if output.IsJSON() {
		return output.JSON(report)
	}
	return RenderReport(output.Writer(), report, RenderOptions{
		ColumnWidth: app.Config.UI.ColumnWidth,
		DateFormat:  app.Config.UI.DateFormat,
		Color:       output.ColorEnabled(),
	})
}

// collectRequest resolves every evaluation input from flags, prompting for the rest.
// Flag values are validated once; prompted values are asked again until valid.
func collectRequest(ctx context.Context, app *App, p *Prompter, flags gridFlags, today time.Time) (pricing.Request, error) {
	var req pricing.Request
	req.Today = today

	snapshot, err := resolveSnapshot(ctx, app, p, flags)
	if err != nil {
		return req, err
	}
	req.Snapshot = snapshot
	req.Contract.Underlying = snapshot.Symbol

	req.Contract.Strike, err = fieldValue(p, "strike", flags.strike, promptStrike, validation.ParseStrike)
	if err != nil {
		return req, err
	}

	req.Contract.Expiry, err = fieldValue(p, "expiry", flags.expiry, promptExpiry, func(s string) (time.Time, error) {
		return validation.ParseExpiry(s, today)
	})
	if err != nil {
		return req, err
	}

	type bounds struct{ low, high int }
	r, err := fieldValue(p, "range", flags.priceRange, promptRange, func(s string) (bounds, error) {
		low, high, err := validation.ParseRange(s)
		return bounds{low, high}, err
	})
	if err != nil {
		return req, err
	}
	req.Low, req.High = r.low, r.high

	req.Contract.Type, err = fieldValue(p, "type", flags.optType, promptType, validation.ParseOptionType)
	if err != nil {
		return req, err
	}

	return req, nil
}

// fieldValue parses a flag value when given, otherwise prompts for it.
func fieldValue[T any](p *Prompter, field, flagValue, label string, parse func(string) (T, error)) (T, error) {
	if flagValue != "" {
		return parse(flagValue)
	}
	return askValue(p, field, label, parse)
}

// resolveSnapshot returns the underlying price from --spot or a quote lookup.
func resolveSnapshot(ctx context.Context, app *App, p *Prompter, flags gridFlags) (models.MarketSnapshot, error) {
	var symbol string
	if flags.ticker != "" {
		s, err := validation.ValidateSymbol(flags.ticker)
		if err != nil {
			return models.MarketSnapshot{}, err
		}
		symbol = s
	}

	if flags.spot != "" {
		spot, err := validation.ParseSpot(flags.spot)
		if err != nil {
			return models.MarketSnapshot{}, err
		}
		return models.MarketSnapshot{Symbol: symbol, UnderlyingPrice: spot, AsOf: app.Now()}, nil
	}

	provider, err := app.quoteProvider()
	if err != nil {
		return models.MarketSnapshot{}, err
	}

	lookup := func(s string) (*models.Quote, error) {
		sym, err := validation.ValidateSymbol(s)
		if err != nil {
			return nil, err
		}
		return provider.GetQuote(ctx, sym)
	}

	var quote *models.Quote
	if symbol != "" {
		quote, err = lookup(symbol)
	} else {
		quote, err = askValue(p, "ticker", promptTicker, lookup)
	}
	if err != nil {
		return models.MarketSnapshot{}, apperrors.Wrap(err, "underlying price")
	}

	return models.SnapshotFromQuote(quote), nil
}
