package strapi

import "encoding/json"

// FindOptions narrows a collection query. Filters are exact-match
// (rendered as filters[field][$eq]=value); Sort is field:asc|desc.
type FindOptions struct {
	Filters   map[string]string
	Sort      string
	Page      int
	PageSize  int
	Fields    []string
	WithCount bool
}

// Pagination is the CMS pagination meta block.
type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

type listResponse struct {
	Data json.RawMessage `json:"data"`
	Meta struct {
		Pagination Pagination `json:"pagination"`
	} `json:"meta"`
}

type writeRequest struct {
	Data any `json:"data"`
}
