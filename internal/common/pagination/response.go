package pagination

// Response is one page of items plus its metadata.
type Response[T any] struct {
	Items      []T      `json:"items"`
	Pagination Metadata `json:"pagination"`
}

// NewResponse pairs data with metadata. A nil slice is encoded as [].
func NewResponse[T any](data []T, metadata Metadata) Response[T] {
	if data == nil {
		data = []T{}
	}
	return Response[T]{Items: data, Pagination: metadata}
}
