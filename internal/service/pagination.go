package service

import (
	"math"

	"go-checklist-api/internal/model"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100

	// maxPage keeps page*limit within int for every allowed limit.
	maxPage = math.MaxInt / maxPageLimit
)

// normalizePage clamps user supplied paging parameters into a usable range.
func normalizePage(page int, limit int) (int, int) {
	switch {
	case page < 1:
		page = 1
	case page > maxPage:
		page = maxPage
	}
	switch {
	case limit < 1:
		limit = defaultPageLimit
	case limit > maxPageLimit:
		limit = maxPageLimit
	}
	return page, limit
}

func pageOffset(page int, limit int) int {
	return (page - 1) * limit
}

func buildPageMeta(total int, page int, limit int) model.PageMeta {
	meta := model.PageMeta{
		TotalItems: total,
		Limit:      limit,
		Page:       page,
		TotalPages: (total + limit - 1) / limit,
	}
	if page*limit < total {
		next := page + 1
		meta.NextPage = &next
	}
	if page > 1 {
		prev := page - 1
		meta.PrevPage = &prev
	}
	return meta
}
