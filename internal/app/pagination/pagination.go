package pagination

const (
	FirstPage       = 1
	DefaultPageSize = 10
)

// Result is one page cut out of an ordered list.
type Result[T any] struct {
	Items   []T
	IsFirst bool
	IsLast  bool
}

// Paginate returns the window [(page-1)*pageSize, page*pageSize) of items.
// Pages are 1-based. Out-of-range pages yield an empty window instead of an
// error, and an empty list is always both the first and the last page.
func Paginate[T any](items []T, page, pageSize int) Result[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	res := Result[T]{
		IsFirst: page == FirstPage || total == 0,
		IsLast:  page == totalPages || total == 0,
		Items:   []T{},
	}
	if page < FirstPage || page > totalPages {
		return res
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)
	res.Items = items[start:end]
	return res
}
