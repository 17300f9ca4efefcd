package query

import "github.com/mesh-intelligence/trailmap/pkg/types"

// Paginate returns page number of trails split into pages of size items.
// A size <= 0 uses types.DefaultPageSize. The requested page is clamped into
// [1, TotalPages]; an empty collection yields page 1 with no items.
func Paginate(trails []types.Trail, size, number int) types.Page {
	if size <= 0 {
		size = types.DefaultPageSize
	}
	total := len(trails)
	pages := TotalPages(total, size)

	number = ClampPage(number, pages)

	p := types.Page{
		Items:      []types.Trail{},
		Number:     number,
		Size:       size,
		Total:      total,
		TotalPages: pages,
	}
	if total == 0 {
		return p
	}

	start := (number - 1) * size
	end := start + min(size, total-start)
	p.Items = append(p.Items, trails[start:end]...)
	return p
}

// TotalPages returns ceil(total/size), or 0 when total is 0.
func TotalPages(total, size int) int {
	if total <= 0 {
		return 0
	}
	if size <= 0 {
		size = types.DefaultPageSize
	}
	pages := total / size
	if total%size != 0 {
		pages++
	}
	return pages
}

// ClampPage clamps number into [1, pages]; it returns 1 when pages is 0.
func ClampPage(number, pages int) int {
	if number > pages {
		number = pages
	}
	if number < 1 {
		number = 1
	}
	return number
}
