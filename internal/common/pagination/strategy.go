package pagination

// QueryParams is what a repository needs to fetch one page.
type QueryParams struct {
	Offset int
	Limit  int
}

// OffsetStrategy pages with LIMIT/OFFSET and a separate COUNT.
type OffsetStrategy struct{}

// CalculateQuery turns a 1-based page into an offset.
func (OffsetStrategy) CalculateQuery(params Params) QueryParams {
	return QueryParams{
		Offset: (params.Page - 1) * params.Limit,
		Limit:  params.Limit,
	}
}

// BuildMetadata describes params within total items. An empty listing
// still has one page.
func (OffsetStrategy) BuildMetadata(params Params, total int64) Metadata {
	pages := 1
	if total > 0 && params.Limit > 0 {
		pages = int((total + int64(params.Limit) - 1) / int64(params.Limit))
	}
	return Metadata{
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: pages,
	}
}
