package pagination

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	pkgerrors "github.com/rewear/rewear-backend/pkg/errors"
)

const (
	// DefaultLimit is the listing page size when a limit is not provided.
	DefaultLimit = 12
	// MaxLimit caps how many rows any page can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	// Page is the requested 1-based page number, echoed back unclamped.
	Page  int
	Limit int
}

// Meta is the pagination block returned next to a page of results.
type Meta struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
}

// Options tunes query parsing per endpoint.
type Options struct {
	DefaultLimit int
	MaxLimit     int
}

func (o Options) normalized() Options {
	if o.MaxLimit <= 0 {
		o.MaxLimit = MaxLimit
	}
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = DefaultLimit
	}
	if o.DefaultLimit > o.MaxLimit {
		o.DefaultLimit = o.MaxLimit
	}
	return o
}

// FromQuery reads page and limit from query values. Non-numeric values,
// non-positive limits and pages whose offset overflows are validation errors;
// oversized limits are capped.
func FromQuery(values url.Values, opts Options) (Params, error) {
	opts = opts.normalized()
	fieldErrs := map[string]string{}

	page := 1
	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			fieldErrs["page"] = "must be an integer"
		} else {
			page = parsed
		}
	}

	limit := opts.DefaultLimit
	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			fieldErrs["limit"] = "must be an integer"
		case parsed <= 0:
			fieldErrs["limit"] = "must be at least 1"
		default:
			limit = parsed
		}
	}

	limit = NormalizeLimit(limit, opts.MaxLimit)
	if _, ok := fieldErrs["page"]; !ok && page > maxPage(limit) {
		fieldErrs["page"] = "is too large"
	}

	if len(fieldErrs) > 0 {
		return Params{}, pkgerrors.Validation("invalid pagination parameters", fieldErrs)
	}
	return Params{Page: page, Limit: limit}, nil
}

// maxPage is the largest page whose offset fits in an int.
func maxPage(limit int) int {
	return math.MaxInt/limit + 1
}

// NormalizeLimit enforces the default and maximum limits.
func NormalizeLimit(limit, max int) int {
	if max <= 0 {
		max = MaxLimit
	}
	if limit <= 0 {
		return min(DefaultLimit, max)
	}
	if limit > max {
		return max
	}
	return limit
}

// Offset is the row offset for the page, never negative. Pages past the
// representable range saturate at math.MaxInt so they read as empty.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	limit := p.EffectiveLimit()
	if p.Page > maxPage(limit) {
		return math.MaxInt
	}
	return (p.Page - 1) * limit
}

// EffectiveLimit applies the default when Limit is unset.
func (p Params) EffectiveLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}
	return p.Limit
}

// NewMeta computes the page count for total rows at the effective limit.
func NewMeta(p Params, total int64) Meta {
	limit := p.EffectiveLimit()
	return Meta{
		Current: p.Page,
		Pages:   int(math.Ceil(float64(total) / float64(limit))),
		Total:   total,
	}
}
