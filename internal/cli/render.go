package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"

	apperrors "options-pricer/internal/errors"
	"options-pricer/internal/models"
)

// columnGap separates grid columns.
const columnGap = "  "

// RenderOptions controls grid layout.
type RenderOptions struct {
	// ColumnWidth is the minimum cell width; wider cells or dates widen every column.
	ColumnWidth int
	DateFormat  string
	// Color marks cells above the current value green and below it red, and
	// highlights the row nearest the current underlying price.
	Color bool
}

// RenderReport writes the header line, the date row and one row per price.
func RenderReport(w io.Writer, r *models.Report, opts RenderOptions) error {
	if r == nil || r.Grid == nil {
		return apperrors.Wrap(apperrors.ErrDataNotFound, "nothing to render")
	}
	grid := r.Grid
	if len(grid.Prices) != grid.Rows() || len(grid.Dates) != grid.Cols() {
		return apperrors.NewAxisConstructionError("grid", "labels do not match grid dimensions")
	}

	dates := make([]string, len(grid.Dates))
	for i, d := range grid.Dates {
		dates[i] = FormatDate(d, opts.DateFormat)
	}

	labels := make([]string, len(grid.Prices))
	labelWidth := 0
	for i, p := range grid.Prices {
		labels[i] = FormatPriceLabel(p)
		labelWidth = max(labelWidth, len(labels[i]))
	}

	cells := make([][]string, grid.Rows())
	cellWidth := opts.ColumnWidth
	for _, d := range dates {
		cellWidth = max(cellWidth, len(d))
	}
	for i, row := range grid.Cells {
		cells[i] = make([]string, len(row))
		for j, v := range row {
			cells[i][j] = FormatPrice(v)
			cellWidth = max(cellWidth, len(cells[i][j]))
		}
	}

	var b strings.Builder
	b.WriteString(headerLine(r, opts.DateFormat))
	b.WriteByte('\n')

	b.WriteString(strings.Repeat(" ", labelWidth))
	for _, d := range dates {
		b.WriteString(columnGap)
		b.WriteString(PadLeft(d, cellWidth))
	}
	b.WriteByte('\n')

	spotRow := nearestRow(grid.Prices, r.Snapshot.UnderlyingPrice)
	for i := range cells {
		label := PadRight(labels[i], labelWidth)
		if i == spotRow {
			label = paint(opts.Color, label, color.Bold)
		}
		b.WriteString(label)

		for j, text := range cells[i] {
			b.WriteString(columnGap)
			b.WriteString(paint(opts.Color, PadLeft(text, cellWidth), cellColor(grid.Cells[i][j], r.CurrentValue)...))
		}
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// headerLine summarises the underlying, the contract and its current value.
func headerLine(r *models.Report, layout string) string {
	return fmt.Sprintf("Underlying current price:  %s     Contract: %s %s %s     Current value: %s",
		FormatPrice(r.Snapshot.UnderlyingPrice),
		FormatDate(r.Contract.Expiry, layout),
		FormatAmount(r.Contract.Strike),
		string(r.Contract.Type),
		FormatPrice(r.CurrentValue),
	)
}

func cellColor(v, current float64) []color.Attribute {
	switch {
	case v > current:
		return []color.Attribute{color.FgGreen}
	case v < current:
		return []color.Attribute{color.FgRed}
	}
	return nil
}

// nearestRow returns the index of the price closest to spot, or -1.
func nearestRow(prices []float64, spot float64) int {
	best, bestDist := -1, math.Inf(1)
	for i, p := range prices {
		if d := math.Abs(p - spot); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
