// Package query turns list request parameters into a bounded, ordered SQL plan.
package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"marketplace/internal/domain"
)

// Defaults holds the values used when a list request omits a parameter.
type Defaults struct {
	SearchField   string `toml:"search_field"`
	PageRequested int    `toml:"page_requested"`
	PageSize      int    `toml:"page_size"`
	SortField     string `toml:"sort_field"`
	SortDirection int    `toml:"sort_direction"`
}

// StandardDefaults returns the stock list defaults: no filter, first page of 10,
// oldest first.
func StandardDefaults() Defaults {
	return Defaults{
		SearchField:   "all",
		PageRequested: 1,
		PageSize:      10,
		SortField:     "createdAt",
		SortDirection: 1,
	}
}

// Params are the raw list parameters as they arrive on the query string.
// Empty strings fall back to Defaults.
type Params struct {
	SearchField   string
	SearchValue   string
	PageRequested string
	PageSize      string
	SortField     string
	SortDirection string
}

// Field maps a public (JSON) field name to its column.
type Field struct {
	Column     string
	Searchable bool
}

// Schema describes the listable fields of one table.
type Schema struct {
	Table  string
	Fields map[string]Field
}

// Plan is a resolved list query. Where and OrderBy are ready to splice into SQL;
// Where is empty for an unfiltered listing.
type Plan struct {
	Where    string
	Args     []any
	OrderBy  string
	Limit    int
	Offset   int
	Page     int
	PageSize int
}

// Resolve validates p against s and d. Invalid input yields a domain.QueryError.
func Resolve(p Params, d Defaults, s Schema) (Plan, error) {
	pageSize, ok := positiveInt(p.PageSize, d.PageSize)
	if !ok {
		return Plan{}, domain.QueryError{Param: "pageSize", Msg: "Page Size is invalid"}
	}
	page, ok := positiveInt(p.PageRequested, d.PageRequested)
	if !ok {
		return Plan{}, domain.QueryError{Param: "pageRequested", Msg: "Page Requested is invalid"}
	}
	dir, ok := direction(p.SortDirection, d.SortDirection)
	if !ok {
		return Plan{}, domain.QueryError{Param: "sortValue", Msg: "Sort Value is invalid"}
	}

	plan := Plan{
		Limit:    pageSize,
		Offset:   offset(page, pageSize),
		Page:     page,
		PageSize: pageSize,
	}

	searchField := strings.TrimSpace(p.SearchField)
	if searchField != "" && searchField != d.SearchField {
		f, ok := s.Fields[searchField]
		if !ok || !f.Searchable {
			return Plan{}, domain.QueryError{Param: "searchField", Msg: "Search Field is invalid"}
		}
		plan.Where = fmt.Sprintf("WHERE LOWER(%s) LIKE ?", f.Column)
		plan.Args = []any{"%" + escapeLike(strings.ToLower(p.SearchValue)) + "%"}
	}

	sortField := strings.TrimSpace(p.SortField)
	if sortField == "" {
		sortField = d.SortField
	}
	sf, ok := s.Fields[sortField]
	if !ok {
		return Plan{}, domain.QueryError{Param: "sortType", Msg: "Sort Type is invalid"}
	}
	order := "ASC"
	if dir < 0 {
		order = "DESC"
	}
	plan.OrderBy = fmt.Sprintf("ORDER BY %s %s, id ASC", sf.Column, order)

	return plan, nil
}

// offset saturates at math.MaxInt so a page far past the end reads as empty instead of wrapping negative.
func offset(page, pageSize int) int {
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}

func positiveInt(raw string, fallback int) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, fallback > 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func direction(raw string, fallback int) (int, bool) {
	raw = strings.TrimSpace(raw)
	n := fallback
	if raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, false
		}
		n = v
	}
	return n, n == 1 || n == -1
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
