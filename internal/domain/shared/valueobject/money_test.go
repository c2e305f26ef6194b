package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(100), USD)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))
		assert.Equal(t, USD, m.Currency())
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(100), "")
		assert.Error(t, err)
	})
}

func TestNewMoneyTHBFromString(t *testing.T) {
	t.Run("parses valid amount", func(t *testing.T) {
		m, err := NewMoneyTHBFromString("15000.50")
		require.NoError(t, err)
		assert.Equal(t, THB, m.Currency())
		assert.Equal(t, "15000.5", m.Amount().String())
	})

	t.Run("rejects invalid amount", func(t *testing.T) {
		_, err := NewMoneyTHBFromString("not-a-number")
		assert.Error(t, err)
	})
}

func TestMoneyArithmetic(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		a := NewMoneyTHB(decimal.NewFromInt(100))
		b := NewMoneyTHB(decimal.NewFromInt(50))
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromInt(150)))
	})

	t.Run("subtracts same currency", func(t *testing.T) {
		a := NewMoneyTHB(decimal.NewFromInt(100))
		b := NewMoneyTHB(decimal.NewFromInt(150))
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.True(t, diff.IsNegative())
	})

	t.Run("rejects mixed currencies", func(t *testing.T) {
		a := NewMoneyTHB(decimal.NewFromInt(100))
		b, _ := NewMoney(decimal.NewFromInt(100), USD)

		_, err := a.Add(b)
		assert.Error(t, err)

		_, err = a.Subtract(b)
		assert.Error(t, err)
	})
}

func TestMoneyPredicates(t *testing.T) {
	assert.True(t, NewMoneyTHB(decimal.NewFromInt(1)).IsPositive())
	assert.False(t, NewMoneyTHB(decimal.Zero).IsPositive())
	assert.True(t, NewMoneyTHB(decimal.Zero).IsZero())
	assert.True(t, Zero(THB).IsZero())
	assert.True(t, NewMoneyTHB(decimal.NewFromInt(-5)).IsNegative())
}

func TestMoneyEquals(t *testing.T) {
	a := NewMoneyTHB(decimal.NewFromInt(100))
	b := NewMoneyTHB(decimal.NewFromInt(100))
	c, _ := NewMoney(decimal.NewFromInt(100), USD)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}

func TestMoneyString(t *testing.T) {
	m := NewMoneyTHB(decimal.NewFromFloat(1234.5))
	assert.Equal(t, "1234.50 THB", m.String())
}
