package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory_AddAndFindSubCategory(t *testing.T) {
	food := NewCategory("food")
	candy := NewCategory("candy")

	require.NoError(t, food.AddSubCategory(candy))

	assert.Same(t, candy, food.FindSubCategory("candy"))
	assert.Nil(t, food.FindSubCategory("fruit"))
}

func TestCategory_AddSubCategory_NilFails(t *testing.T) {
	food := NewCategory("food")

	assert.ErrorIs(t, food.AddSubCategory(nil), ErrInvalidInput)
}

func TestCategory_AddSubCategory_DuplicateNameFails(t *testing.T) {
	food := NewCategory("food")
	require.NoError(t, food.AddSubCategory(NewCategory("candy")))

	err := food.AddSubCategory(NewCategory("candy"))

	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Len(t, food.SubCategories(), 1)
}

func TestCategory_HasSubCategories(t *testing.T) {
	food := NewCategory("food")

	assert.False(t, food.HasSubCategories())

	require.NoError(t, food.AddSubCategory(NewCategory("candy")))

	assert.True(t, food.HasSubCategories())
}

func TestCategory_RemoveSubCategory(t *testing.T) {
	food := NewCategory("food")
	candy := NewCategory("candy")
	require.NoError(t, food.AddSubCategory(candy))

	food.RemoveSubCategory(candy)

	assert.Nil(t, food.FindSubCategory("candy"))
	assert.False(t, food.HasSubCategories())
}

func TestCategory_HasTransactions(t *testing.T) {
	candy := NewCategory("candy")

	assert.False(t, candy.HasTransactions())

	require.NoError(t, candy.AddTransaction(testTransaction()))

	assert.True(t, candy.HasTransactions())
}

func TestCategory_AddTransaction_NilFails(t *testing.T) {
	candy := NewCategory("candy")

	assert.ErrorIs(t, candy.AddTransaction(nil), ErrInvalidInput)
}

func TestCategory_RemoveTransaction(t *testing.T) {
	candy := NewCategory("candy")
	tx := testTransaction()
	require.NoError(t, candy.AddTransaction(tx))

	candy.RemoveTransaction(tx)

	assert.False(t, candy.HasTransactions())
}

func TestCategory_SubCategories_ReturnsCopy(t *testing.T) {
	food := NewCategory("food")
	require.NoError(t, food.AddSubCategory(NewCategory("candy")))

	snapshot := food.SubCategories()
	snapshot[0] = nil

	assert.NotNil(t, food.FindSubCategory("candy"))
}
