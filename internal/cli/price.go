package cli

import (
	"github.com/spf13/cobra"

	"options-pricer/internal/models"
	"options-pricer/internal/validation"
	"options-pricer/pkg/utils"
)

// priceResult is the JSON shape of the price command.
type priceResult struct {
	Spot         float64           `json:"spot"`
	Strike       float64           `json:"strike"`
	Type         models.OptionType `json:"type"`
	Days         int               `json:"days"`
	Volatility   float64           `json:"volatility"`
	RiskFreeRate float64           `json:"risk_free_rate"`
	Value        float64           `json:"value"`
}

func newPriceCmd(app *App) *cobra.Command {
	var (
		spot, strike, optType string
		days                  int
	)

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Value a single option at one underlying price",
		Example: `  pricer price --spot 100 --strike 100 --days 30 --type C
  pricer price --spot 100 --strike 105 --days 0 --type P --volatility 0.4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := validation.ParseSpot(spot)
			if err != nil {
				return err
			}
			k, err := validation.ParseStrike(strike)
			if err != nil {
				return err
			}
			t, err := validation.ParseOptionType(optType)
			if err != nil {
				return err
			}
			if days < 0 {
				return &validation.ValidationError{Field: "days", Value: cmd.Flag("days").Value.String(), Message: "must not be negative"}
			}

			engine, err := app.newEngine(cmd)
			if err != nil {
				return err
			}
			contract := models.OptionContract{Strike: k, Type: t}
			value, err := engine.CurrentValue(s, contract, days)
			if err != nil {
				return err
			}

			params := engine.Params()
			result := priceResult{
				Spot:         s,
				Strike:       k,
				Type:         t,
				Days:         days,
				Volatility:   params.Volatility,
				RiskFreeRate: params.RiskFreeRate,
				Value:        value,
			}

			output := app.output(cmd)
			if output.IsJSON() {
				return output.JSON(result)
			}
			output.Printf("%s %s, %d days, underlying %s\n",
				FormatPriceLabel(k), t, days, FormatPriceLabel(s))
			output.Printf("  Value:  %s\n", output.Cyan(utils.FormatCurrency(value)))
			output.Dim("  σ %s, r %s", FormatPercentage(params.Volatility), FormatPercentage(params.RiskFreeRate))
			return nil
		},
	}

	cmd.Flags().StringVar(&spot, "spot", "", "underlying price")
	cmd.Flags().StringVar(&strike, "strike", "", "strike price")
	cmd.Flags().StringVar(&optType, "type", "", "option type: C (call) or P (put)")
	cmd.Flags().IntVar(&days, "days", 0, "calendar days to expiry")
	addModelFlags(cmd)
	_ = cmd.MarkFlagRequired("spot")
	_ = cmd.MarkFlagRequired("strike")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}
