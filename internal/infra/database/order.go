package database

import (
	"lessons_reporter_bot/internal/domain/listing"
)

// orderBy turns listing options into ORDER BY terms. Only whitelisted columns
// are accepted; anything else orders by id. The id is always
// the last term so equal keys keep a stable order.
func orderBy(opts listing.Options, allowed ...string) []string {
	dir := " ASC"
	if opts.Descending {
		dir = " DESC"
	}
	for _, col := range allowed {
		if opts.OrderBy == col && col != "id" {
			return []string{col + dir, "id" + dir}
		}
	}
	return []string{"id" + dir}
}
