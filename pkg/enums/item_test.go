package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItemCategory(t *testing.T) {
	got, err := ParseItemCategory("Outerwear")
	require.NoError(t, err)
	assert.Equal(t, ItemCategoryOuterwear, got)

	_, err = ParseItemCategory("outerwear")
	assert.Error(t, err)
	assert.False(t, ItemCategory("Hats").IsValid())
}

func TestParseItemConditionKeepsSpacedValue(t *testing.T) {
	got, err := ParseItemCondition("Like New")
	require.NoError(t, err)
	assert.Equal(t, ItemConditionLikeNew, got)
	assert.True(t, got.IsValid())

	_, err = ParseItemCondition("Worn")
	assert.Error(t, err)
}

func TestParseExchangeType(t *testing.T) {
	for _, raw := range []string{"sale", "swap", "both"} {
		got, err := ParseExchangeType(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, got.String())
	}
	_, err := ParseExchangeType("gift")
	assert.Error(t, err)
}

func TestValueListsForMessages(t *testing.T) {
	assert.Equal(t, "sale, swap, both", ExchangeTypeValues())
	assert.Contains(t, ItemConditionValues(), "Like New")
	assert.Contains(t, ItemCategoryValues(), "Accessories")
}
