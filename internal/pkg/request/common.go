package request

import "errors"

var ErrInvalidPaging = errors.New("from must be >= 0 and size must be > 0")

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// ListParams carries offset based paging: From is the number of items to
// skip, Size the number of items to return.
type ListParams struct {
	From *int `form:"from"`
	Size *int `form:"size"`
}

// Resolve applies defaults and the size cap, and rejects negative offsets
// and non-positive sizes.
func (p ListParams) Resolve(defaultSize, maxSize int) (from, size int, err error) {
	from = 0
	size = defaultSize
	if p.From != nil {
		from = *p.From
	}
	if p.Size != nil {
		size = *p.Size
	}
	if from < 0 || size <= 0 {
		return 0, 0, ErrInvalidPaging
	}
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	return from, size, nil
}
