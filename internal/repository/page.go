package repository

import (
	"fmt"
	"strings"

	appErr "github.com/standard-backend/userapi/pkg/errors"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultSort     = "name"
)

var sortableColumns = map[string]struct{}{
	"id":         {},
	"email":      {},
	"name":       {},
	"created_at": {},
}

// Page selects a window of a listing. Number is 1-based.
type Page struct {
	Number int
	Size   int
	Sort   string
	Desc   bool
}

// Normalized clamps the page to sane bounds and fills the default sort.
func (p Page) Normalized() Page {
	if p.Number <= 0 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	if p.Sort == "" {
		p.Sort = DefaultSort
	}
	return p
}

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// ParseSort parses "field" or "field,asc|desc" into a column and direction.
func ParseSort(s string) (column string, desc bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultSort, false, nil
	}
	field, dir, _ := strings.Cut(s, ",")
	field = strings.ToLower(strings.TrimSpace(field))
	if _, ok := sortableColumns[field]; !ok {
		return "", false, appErr.New(appErr.CodeInvalid, fmt.Sprintf("cannot sort by %q", field))
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
		return field, false, nil
	case "desc":
		return field, true, nil
	default:
		return "", false, appErr.New(appErr.CodeInvalid, fmt.Sprintf("invalid sort direction %q", dir))
	}
}
