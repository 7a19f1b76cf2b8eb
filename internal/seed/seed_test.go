package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hongminglow/finance-be/internal/models"
)

type fakeInserter struct {
	rows map[string]models.CategoryType
	err  error
}

func (f *fakeInserter) EnsureDefaultCategory(_ context.Context, name string, typ models.CategoryType) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.rows[name]; ok {
		return false, nil
	}
	f.rows[name] = typ
	return true, nil
}

func TestDefaults(t *testing.T) {
	defaults, err := Defaults()
	require.NoError(t, err)
	require.Equal(t, []DefaultCategory{
		{Name: "Salary", Type: models.Income},
		{Name: "Food", Type: models.Expense},
		{Name: "Rent", Type: models.Expense},
		{Name: "Transportation", Type: models.Expense},
		{Name: "Entertainment", Type: models.Expense},
		{Name: "Healthcare", Type: models.Expense},
		{Name: "Utilities", Type: models.Expense},
	}, defaults)
}

func TestParse(t *testing.T) {
	got, err := Parse([]byte("categories:\n  - name: ' Bonus '\n    type: income\n"))
	require.NoError(t, err)
	require.Equal(t, []DefaultCategory{{Name: "Bonus", Type: models.Income}}, got)

	for name, doc := range map[string]string{
		"bad type":      "categories:\n  - name: X\n    type: SAVINGS\n",
		"missing name":  "categories:\n  - type: INCOME\n",
		"duplicate":     "categories:\n  - {name: A, type: INCOME}\n  - {name: A, type: EXPENSE}\n",
		"unknown field": "categories:\n  - {name: A, type: INCOME, colour: red}\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
		})
	}
}

func TestCategoriesIsIdempotent(t *testing.T) {
	defaults, err := Defaults()
	require.NoError(t, err)
	store := &fakeInserter{rows: map[string]models.CategoryType{}}

	require.NoError(t, Categories(context.Background(), store, defaults))
	require.Len(t, store.rows, 7)
	require.NoError(t, Categories(context.Background(), store, defaults))
	require.Len(t, store.rows, 7)
	require.Equal(t, models.Income, store.rows["Salary"])
}

func TestCategoriesPropagatesErrors(t *testing.T) {
	store := &fakeInserter{err: errors.New("boom")}
	err := Categories(context.Background(), store, []DefaultCategory{{Name: "Food", Type: models.Expense}})
	require.ErrorContains(t, err, "boom")
}
