package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction_GeneratesID(t *testing.T) {
	tx := NewTransaction("lollipop", decimal.NewFromFloat(3.5), testDate())

	assert.NotEqual(t, tx.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, "lollipop", tx.Description)
	assert.True(t, tx.Amount.Equal(decimal.NewFromFloat(3.5)))
	assert.Equal(t, testDate(), tx.Date)
}

func TestTransaction_AddTag(t *testing.T) {
	tx := testTransaction()
	tag := NewTag("sweet")

	require.NoError(t, tx.AddTag(tag))

	assert.True(t, tx.HasTag("sweet"))
	assert.Len(t, tx.Tags(), 1)
}

func TestTransaction_AddTag_NilFails(t *testing.T) {
	tx := testTransaction()

	assert.ErrorIs(t, tx.AddTag(nil), ErrInvalidInput)
}

func TestTransaction_AddTag_DuplicateNameIsNoOp(t *testing.T) {
	tx := testTransaction()
	sweet := NewTag("sweet")

	require.NoError(t, tx.AddTag(sweet))
	require.NoError(t, tx.AddTag(NewTag("sweet")))

	tags := tx.Tags()
	require.Len(t, tags, 1)
	assert.Same(t, sweet, tags[0])
}

func TestTransaction_ClearTags(t *testing.T) {
	tx := testTransaction()
	require.NoError(t, tx.AddTag(NewTag("sweet")))
	require.NoError(t, tx.AddTag(NewTag("impulse")))

	tx.ClearTags()

	assert.Empty(t, tx.Tags())
	assert.False(t, tx.HasTag("sweet"))
}

func TestTransaction_Tags_ReturnsCopy(t *testing.T) {
	tx := testTransaction()
	require.NoError(t, tx.AddTag(NewTag("sweet")))

	snapshot := tx.Tags()
	snapshot[0] = nil

	assert.True(t, tx.HasTag("sweet"))
}
