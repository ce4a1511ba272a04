package items

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rewear/rewear-backend/pkg/enums"
	pkgerrors "github.com/rewear/rewear-backend/pkg/errors"
	"github.com/rewear/rewear-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

const (
	defaultSortField = "createdAt"
	defaultOrder     = "desc"
)

// sortColumns maps the public sort names onto item columns.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"price":     "price",
	"points":    "points",
	"views":     "views",
	"title":     "title",
}

// Sort is a whitelisted ordering for item lists.
type Sort struct {
	Column string
	Desc   bool
}

// NewestFirst orders by creation time, latest first.
var NewestFirst = Sort{Column: "created_at", Desc: true}

// ListParams narrows an item listing. Zero values leave a dimension unfiltered.
type ListParams struct {
	Category     enums.ItemCategory
	Condition    enums.ItemCondition
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Search       string
	SellerID     uuid.UUID
	WishlistedBy uuid.UUID
	// IncludeUnavailable lifts the is_available filter; only the owner profile uses it.
	IncludeUnavailable bool
	Sort               Sort
	Page               pagination.Params
	// Unpaged returns every match and ignores Page.
	Unpaged bool
}

// ParseListQuery builds list parameters from the browse endpoint query string.
// Every malformed field is reported in a single validation error.
func ParseListQuery(values url.Values, opts pagination.Options) (ListParams, error) {
	params := ListParams{}
	fieldErrs := map[string]string{}

	if raw := strings.TrimSpace(values.Get("category")); raw != "" {
		category, err := enums.ParseItemCategory(raw)
		if err != nil {
			fieldErrs["category"] = "must be one of: " + enums.ItemCategoryValues()
		}
		params.Category = category
	}
	if raw := strings.TrimSpace(values.Get("condition")); raw != "" {
		condition, err := enums.ParseItemCondition(raw)
		if err != nil {
			fieldErrs["condition"] = "must be one of: " + enums.ItemConditionValues()
		}
		params.Condition = condition
	}

	params.MinPrice = parsePriceBound(values, "minPrice", fieldErrs)
	params.MaxPrice = parsePriceBound(values, "maxPrice", fieldErrs)

	params.Search = strings.TrimSpace(values.Get("search"))

	sortField := strings.TrimSpace(values.Get("sort"))
	if sortField == "" {
		sortField = defaultSortField
	}
	column, ok := sortColumns[sortField]
	if !ok {
		fieldErrs["sort"] = "must be one of: createdAt, updatedAt, price, points, views, title"
	}
	order := strings.TrimSpace(values.Get("order"))
	if order == "" {
		order = defaultOrder
	}
	params.Sort = Sort{Column: column, Desc: order == "desc"}

	page, err := pagination.FromQuery(values, opts)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			if details, ok := typed.Details().(map[string]string); ok {
				for field, msg := range details {
					fieldErrs[field] = msg
				}
			}
		}
	}
	params.Page = page

	if len(fieldErrs) > 0 {
		return ListParams{}, pkgerrors.Validation("invalid query parameters", fieldErrs)
	}
	return params, nil
}

func parsePriceBound(values url.Values, key string, fieldErrs map[string]string) *decimal.Decimal {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		fieldErrs[key] = "must be a number"
		return nil
	}
	return &d
}
