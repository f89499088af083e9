package common

// PageQuery is the limit/offset paging accepted by list endpoints.
// A zero Limit returns every row.
type PageQuery struct {
	Limit  int `form:"limit" binding:"min=0"`
	Offset int `form:"offset" binding:"min=0"`
}

type Pagination struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

type SearchResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// NewSearchResponse reports one page of rows together with the unpaged total.
func NewSearchResponse(data interface{}, total int64, page PageQuery) *SearchResponse {
	return &SearchResponse{
		Data: data,
		Pagination: Pagination{
			Total:  total,
			Limit:  page.Limit,
			Offset: page.Offset,
		},
	}
}
