package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rewear/rewear-backend/api/middleware"
	"github.com/rewear/rewear-backend/api/responses"
	"github.com/rewear/rewear-backend/api/validators"
	"github.com/rewear/rewear-backend/internal/items"
	"github.com/rewear/rewear-backend/pkg/enums"
	pkgerrors "github.com/rewear/rewear-backend/pkg/errors"
	"github.com/rewear/rewear-backend/pkg/logger"
	"github.com/rewear/rewear-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

const itemNotFound = "item not found"

type createItemForm struct {
	Title        string `json:"title" validate:"required,runelen=3-100"`
	Description  string `json:"description" validate:"required,runelen=10-1000"`
	Category     string `json:"category" validate:"required,item_category"`
	Condition    string `json:"condition" validate:"required,item_condition"`
	Size         string `json:"size" validate:"required,max=50"`
	Price        string `json:"price" validate:"required,item_price"`
	Points       string `json:"points" validate:"required,item_points"`
	Location     string `json:"location" validate:"required,max=100"`
	ExchangeType string `json:"exchangeType" validate:"omitempty,exchange_type"`
	Tags         []string
}

type updateItemRequest struct {
	Title        *string          `json:"title,omitempty" validate:"omitnil,runelen=3-100"`
	Description  *string          `json:"description,omitempty" validate:"omitnil,runelen=10-1000"`
	Category     *string          `json:"category,omitempty" validate:"omitnil,item_category"`
	Condition    *string          `json:"condition,omitempty" validate:"omitnil,item_condition"`
	Size         *string          `json:"size,omitempty" validate:"omitnil,runelen=1-50"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Points       *int             `json:"points,omitempty" validate:"omitnil,min=0,max=2147483647"`
	Location     *string          `json:"location,omitempty" validate:"omitnil,runelen=1-100"`
	Tags         *[]string        `json:"tags,omitempty"`
	ExchangeType *string          `json:"exchangeType,omitempty" validate:"omitnil,exchange_type"`
	IsAvailable  *bool            `json:"isAvailable,omitempty"`
}

type itemMutationResponse struct {
	Message string         `json:"message"`
	Item    *items.ItemDTO `json:"item"`
}

type wishlistToggleResponse struct {
	Message      string `json:"message"`
	IsWishlisted bool   `json:"isWishlisted"`
}

// ItemList serves the filtered, sorted, paginated browse endpoint.
func ItemList(svc items.Service, opts pagination.Options, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		params, err := items.ParseListQuery(r.URL.Query(), opts)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.List(ctx, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ItemFeatured(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		featured, err := svc.Featured(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, featured)
	}
}

// ItemDetail returns one item with its seller and wishlisters, counting the view.
// Signed-in callers also get isWishlisted.
func ItemDetail(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		itemID, err := pathID(r, "id", itemNotFound)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		viewerID, _ := middleware.UserUUIDFromContext(ctx)
		item, err := svc.Get(ctx, itemID, viewerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// ItemCreate reads the multipart fields next to the images stored by the upload middleware.
func ItemCreate(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		sellerID, err := currentUser(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input, err := parseCreateForm(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input.Images = middleware.UploadedImagesFromContext(ctx)

		item, err := svc.Create(ctx, sellerID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, itemMutationResponse{Message: "Item created successfully", Item: item})
	}
}

func ItemUpdate(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		userID, err := currentUser(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		itemID, err := pathID(r, "id", itemNotFound)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var req updateItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		item, err := svc.Update(ctx, userID, itemID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, itemMutationResponse{Message: "Item updated successfully", Item: item})
	}
}

func ItemDelete(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		userID, err := currentUser(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		itemID, err := pathID(r, "id", itemNotFound)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, userID, itemID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Item deleted successfully")
	}
}

// ItemWishlistToggle adds the item to the caller's wishlist, or removes it when already saved.
func ItemWishlistToggle(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		userID, err := currentUser(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		itemID, err := pathID(r, "id", itemNotFound)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		added, err := svc.ToggleWishlist(ctx, userID, itemID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		msg := "Removed from wishlist"
		if added {
			msg = "Added to wishlist"
		}
		responses.WriteSuccess(w, wishlistToggleResponse{Message: msg, IsWishlisted: added})
	}
}

func parseCreateForm(r *http.Request) (items.CreateInput, error) {
	form := createItemForm{
		Title:        strings.TrimSpace(r.FormValue("title")),
		Description:  strings.TrimSpace(r.FormValue("description")),
		Category:     strings.TrimSpace(r.FormValue("category")),
		Condition:    strings.TrimSpace(r.FormValue("condition")),
		Size:         strings.TrimSpace(r.FormValue("size")),
		Price:        strings.TrimSpace(r.FormValue("price")),
		Points:       strings.TrimSpace(r.FormValue("points")),
		Location:     strings.TrimSpace(r.FormValue("location")),
		ExchangeType: strings.TrimSpace(r.FormValue("exchangeType")),
	}
	if r.MultipartForm != nil {
		form.Tags = validators.SplitList(r.MultipartForm.Value["tags"])
	} else {
		form.Tags = validators.SplitList(r.Form["tags"])
	}
	if err := validators.ValidateStruct(&form); err != nil {
		return items.CreateInput{}, err
	}

	price, err := decimal.NewFromString(form.Price)
	if err != nil {
		return items.CreateInput{}, pkgerrors.Validation("validation failed", map[string]string{"price": "must be a non-negative number"})
	}
	points, err := strconv.Atoi(form.Points)
	if err != nil {
		return items.CreateInput{}, pkgerrors.Validation("validation failed", map[string]string{"points": "must be a non-negative whole number"})
	}

	return items.CreateInput{
		Title:        form.Title,
		Description:  form.Description,
		Category:     enums.ItemCategory(form.Category),
		Condition:    enums.ItemCondition(form.Condition),
		Size:         form.Size,
		Price:        price,
		Points:       points,
		Location:     form.Location,
		Tags:         form.Tags,
		ExchangeType: enums.ExchangeType(form.ExchangeType),
	}, nil
}

func (req updateItemRequest) toInput() (items.UpdateInput, error) {
	if req.Price != nil {
		if msg := validators.PriceProblem(*req.Price); msg != "" {
			return items.UpdateInput{}, pkgerrors.Validation("validation failed", map[string]string{"price": msg})
		}
	}

	input := items.UpdateInput{
		Title:       trimmed(req.Title),
		Description: trimmed(req.Description),
		Size:        trimmed(req.Size),
		Price:       req.Price,
		Points:      req.Points,
		Location:    trimmed(req.Location),
		IsAvailable: req.IsAvailable,
	}
	if req.Category != nil {
		c := enums.ItemCategory(*req.Category)
		input.Category = &c
	}
	if req.Condition != nil {
		c := enums.ItemCondition(*req.Condition)
		input.Condition = &c
	}
	if req.ExchangeType != nil {
		e := enums.ExchangeType(*req.ExchangeType)
		input.ExchangeType = &e
	}
	if req.Tags != nil {
		tags := validators.SplitList(*req.Tags)
		input.Tags = &tags
	}
	return input, nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	return &v
}
