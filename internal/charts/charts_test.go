package charts

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/finance-be/internal/finance"
	"github.com/hongminglow/finance-be/internal/models"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestSpendingPie(t *testing.T) {
	img, err := SpendingPie([]finance.CategorySpending{
		{Name: "Rent", Type: models.Expense, Total: decimal.NewFromInt(900)},
		{Name: "Food", Type: models.Expense, Total: decimal.RequireFromString("245.50")},
		{Name: "Utilities", Type: models.Expense, Total: decimal.NewFromInt(80)},
	})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(img, pngMagic))
}

func TestSpendingPieEmpty(t *testing.T) {
	img, err := SpendingPie(nil)
	require.NoError(t, err)
	require.Nil(t, img)

	img, err = SpendingPie([]finance.CategorySpending{{Name: "Food", Total: decimal.Zero}})
	require.NoError(t, err)
	require.Nil(t, img)
}
