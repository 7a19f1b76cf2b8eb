// Package charts renders report data as images.
package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/hongminglow/finance-be/internal/finance"
)

// SpendingPie draws the spending-by-category report as a PNG pie chart.
// It returns nil when there is nothing to draw.
func SpendingPie(rows []finance.CategorySpending) ([]byte, error) {
	total := 0.0
	for _, r := range rows {
		total += r.Total.InexactFloat64()
	}
	if total <= 0 {
		return nil, nil
	}

	values := make([]chart.Value, 0, len(rows))
	for _, r := range rows {
		amount := r.Total.InexactFloat64()
		if amount <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %s (%.1f%%)", r.Name, r.Total.StringFixed(2), amount/total*100),
			Value: amount,
		})
	}

	pie := chart.PieChart{
		Width:  1000,
		Height: 600,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   40,
				Right:  40,
				Bottom: 40,
			},
			FillColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render spending chart: %w", err)
	}
	return buffer.Bytes(), nil
}
