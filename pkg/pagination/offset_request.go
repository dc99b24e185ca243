package pagination

// PageMaxSize is the maximum allowed page size
const PageMaxSize = 10_000

// OffsetRequest represents an offset-based pagination request.
// Size zero, including an omitted size, requests the full result set.
type OffsetRequest struct {
	Page int `json:"page" query:"page" validate:"min=1"`
	Size int `json:"size" query:"limit" validate:"min=0,max=10000"`
}

// Validate normalizes offset pagination parameters
func (r *OffsetRequest) Validate() {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Size < 0 {
		r.Size = 0
	}
	if r.Size > PageMaxSize {
		r.Size = PageMaxSize
	}
}
