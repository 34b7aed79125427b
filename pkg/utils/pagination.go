package utils

import (
	"net/url"
	"strconv"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

func CalculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

func CalculateOffset(page, perPage int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * perPage
}

// ClampPerPage keeps list queries within [1, MaxPerPage].
func ClampPerPage(perPage int) int {
	if perPage < 1 {
		return DefaultPerPage
	}
	return min(perPage, MaxPerPage)
}

// QueryPositiveInt reads key from q, returning fallback unless the value
// parses to an int of at least 1.
func QueryPositiveInt(q url.Values, key string, fallback int) int {
	n, err := strconv.Atoi(q.Get(key))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
