package models

import (
	"strconv"
	"strings"
	"unicode"
)

const (
	DefaultPage  = 1
	DefaultLimit = 5
)

// PageQuery is a validated page/limit pair; both are always >= 1.
type PageQuery struct {
	Page  int
	Limit int
}

// ParsePageQuery applies the parse-or-default policy to raw query values. The
// leading base-10 digits of each value are read ("2abc" is 2); a value without
// them, or one below 1, is replaced by the default.
func ParsePageQuery(page, limit string) PageQuery {
	return PageQuery{
		Page:  positiveOr(page, DefaultPage),
		Limit: positiveOr(limit, DefaultLimit),
	}
}

func positiveOr(raw string, fallback int) int {
	n, ok := ParseLeadingInt(raw)
	if !ok || n < 1 || n > int64(maxInt) {
		return fallback
	}
	return int(n)
}

const maxInt = int(^uint(0) >> 1)

// ParseLeadingInt reads an optionally signed base-10 integer from the start of raw,
// after leading whitespace, and ignores whatever follows it. It reports false when
// no digits are present or the value overflows int64.
func ParseLeadingInt(raw string) (int64, bool) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Pagination is the metadata returned alongside a page of posts.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalPosts  int  `json:"totalPosts"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// Window is the half-open [Start, End) range of a page, clamped to total.
type Window struct {
	Start int
	End   int
}

// Paginate computes the slice window and metadata of q over total items.
func Paginate(q PageQuery, total int) (Window, Pagination) {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}

	var w Window
	// (Page-1) > total/Limit implies (Page-1)*Limit > total; checking it first keeps
	// huge query values from overflowing.
	if q.Page-1 > total/q.Limit {
		w = Window{Start: total, End: total}
	} else {
		w.Start = (q.Page - 1) * q.Limit
		w.End = min(w.Start+q.Limit, total)
	}

	totalPages := total / q.Limit
	if total%q.Limit != 0 {
		totalPages++
	}
	return w, Pagination{
		CurrentPage: q.Page,
		TotalPages:  totalPages,
		TotalPosts:  total,
		HasNext:     w.End < total,
		HasPrev:     q.Page > 1,
	}
}

// PostPage is one page of posts.
type PostPage struct {
	Posts      []Post
	Pagination Pagination
}
