package enums

import (
	"fmt"
	"strings"
)

// ItemCategory is the clothing category of a listing.
type ItemCategory string

const (
	ItemCategoryShirts      ItemCategory = "Shirts"
	ItemCategoryPants       ItemCategory = "Pants"
	ItemCategoryDresses     ItemCategory = "Dresses"
	ItemCategoryShoes       ItemCategory = "Shoes"
	ItemCategoryAccessories ItemCategory = "Accessories"
	ItemCategoryOuterwear   ItemCategory = "Outerwear"
	ItemCategoryOther       ItemCategory = "Other"
)

var validItemCategories = []ItemCategory{
	ItemCategoryShirts,
	ItemCategoryPants,
	ItemCategoryDresses,
	ItemCategoryShoes,
	ItemCategoryAccessories,
	ItemCategoryOuterwear,
	ItemCategoryOther,
}

// String implements fmt.Stringer.
func (c ItemCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ItemCategory.
func (c ItemCategory) IsValid() bool {
	for _, candidate := range validItemCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseItemCategory converts raw input into an ItemCategory.
func ParseItemCategory(value string) (ItemCategory, error) {
	for _, candidate := range validItemCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item category %q", value)
}

// ItemCategoryValues lists the accepted categories for error messages.
func ItemCategoryValues() string {
	return joinValues(validItemCategories)
}

// ItemCondition grades the wear of a listing.
type ItemCondition string

const (
	ItemConditionNew       ItemCondition = "New"
	ItemConditionLikeNew   ItemCondition = "Like New"
	ItemConditionExcellent ItemCondition = "Excellent"
	ItemConditionGood      ItemCondition = "Good"
	ItemConditionFair      ItemCondition = "Fair"
	ItemConditionPoor      ItemCondition = "Poor"
)

var validItemConditions = []ItemCondition{
	ItemConditionNew,
	ItemConditionLikeNew,
	ItemConditionExcellent,
	ItemConditionGood,
	ItemConditionFair,
	ItemConditionPoor,
}

func (c ItemCondition) String() string {
	return string(c)
}

func (c ItemCondition) IsValid() bool {
	for _, candidate := range validItemConditions {
		if candidate == c {
			return true
		}
	}
	return false
}

func ParseItemCondition(value string) (ItemCondition, error) {
	for _, candidate := range validItemConditions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item condition %q", value)
}

func ItemConditionValues() string {
	return joinValues(validItemConditions)
}

// ExchangeType is how the seller is willing to part with an item.
type ExchangeType string

const (
	ExchangeTypeSale ExchangeType = "sale"
	ExchangeTypeSwap ExchangeType = "swap"
	ExchangeTypeBoth ExchangeType = "both"
)

var validExchangeTypes = []ExchangeType{
	ExchangeTypeSale,
	ExchangeTypeSwap,
	ExchangeTypeBoth,
}

func (e ExchangeType) String() string {
	return string(e)
}

func (e ExchangeType) IsValid() bool {
	for _, candidate := range validExchangeTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

func ParseExchangeType(value string) (ExchangeType, error) {
	for _, candidate := range validExchangeTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid exchange type %q", value)
}

func ExchangeTypeValues() string {
	return joinValues(validExchangeTypes)
}

func joinValues[T ~string](values []T) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return strings.Join(out, ", ")
}
