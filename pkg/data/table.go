package data

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	apperrors "github.com/matzehuels/squaremap/pkg/errors"
)

// Default column headers, matching the sample superstore-style workbooks the
// tool was first written for.
const (
	DefaultCategoryColumn    = "Category"
	DefaultSubcategoryColumn = "Sub-Category"
)

// Order controls the iteration order of categories and sub-categories.
type Order string

const (
	// OrderCount sorts by descending count; ties keep first-appearance order.
	OrderCount Order = "count"
	// OrderAppearance keeps the order in which values first appear.
	OrderAppearance Order = "appearance"
	// OrderName sorts values lexically.
	OrderName Order = "name"
)

// ValidOrders is the set of supported orders.
var ValidOrders = map[Order]bool{
	OrderCount:      true,
	OrderAppearance: true,
	OrderName:       true,
}

// ValidateOrder checks that o is a supported order.
func ValidateOrder(o Order) error {
	if !ValidOrders[o] {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "invalid order: %q (must be one of: count, appearance, name)", o)
	}
	return nil
}

// Options selects the columns to tally and the order of the result.
type Options struct {
	CategoryColumn    string `json:"category_column"`
	SubcategoryColumn string `json:"subcategory_column"`
	// Sheet names the workbook sheet to read; empty selects the first sheet.
	Sheet string `json:"sheet,omitempty"`
	Order Order  `json:"order"`
}

// SetDefaults fills empty fields with their defaults.
func (o *Options) SetDefaults() {
	if o.CategoryColumn == "" {
		o.CategoryColumn = DefaultCategoryColumn
	}
	if o.SubcategoryColumn == "" {
		o.SubcategoryColumn = DefaultSubcategoryColumn
	}
	if o.Order == "" {
		o.Order = OrderCount
	}
}

// Validate checks column names and order.
func (o Options) Validate() error {
	if err := apperrors.ValidateColumnName(o.CategoryColumn); err != nil {
		return err
	}
	if err := apperrors.ValidateColumnName(o.SubcategoryColumn); err != nil {
		return err
	}
	return ValidateOrder(o.Order)
}

// Count is a named record count.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Category is a top-level value with its sub-category breakdown. Count may
// exceed the sum of the sub-category counts when some records leave the
// sub-category cell empty.
type Category struct {
	Name          string  `json:"name"`
	Count         int     `json:"count"`
	Subcategories []Count `json:"subcategories"`
}

// Weights returns the sub-category counts in iteration order.
func (c Category) Weights() []int {
	w := make([]int, len(c.Subcategories))
	for i, s := range c.Subcategories {
		w[i] = s.Count
	}
	return w
}

// Table is a two-level frequency table.
type Table struct {
	Categories []Category `json:"categories"`
}

// Weights returns the category counts in iteration order.
func (t Table) Weights() []int {
	w := make([]int, len(t.Categories))
	for i, c := range t.Categories {
		w[i] = c.Count
	}
	return w
}

// Total returns the number of tallied records.
func (t Table) Total() int {
	total := 0
	for _, c := range t.Categories {
		total += c.Count
	}
	return total
}

// Subcategories returns the number of distinct (category, sub-category) pairs.
func (t Table) Subcategories() int {
	n := 0
	for _, c := range t.Categories {
		n += len(c.Subcategories)
	}
	return n
}

// Tally counts records by category and sub-category. The first row of rows
// is the header; column names are matched case-insensitively after trimming.
//
// Rows with an empty category cell are skipped. Rows with an empty
// sub-category cell count towards their category only.
func Tally(rows [][]string, opts Options) (Table, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return Table{}, err
	}
	if len(rows) == 0 {
		return Table{}, apperrors.New(apperrors.ErrCodeMalformedData, "table has no header row")
	}

	catIdx, err := columnIndex(rows[0], opts.CategoryColumn)
	if err != nil {
		return Table{}, err
	}
	subIdx, err := columnIndex(rows[0], opts.SubcategoryColumn)
	if err != nil {
		return Table{}, err
	}

	var cats []*tally
	byName := make(map[string]*tally)
	for _, row := range rows[1:] {
		cat := cell(row, catIdx)
		if cat == "" {
			continue
		}
		c, ok := byName[cat]
		if !ok {
			c = &tally{name: cat, subIdx: make(map[string]int)}
			byName[cat] = c
			cats = append(cats, c)
		}
		c.count++
		if sub := cell(row, subIdx); sub != "" {
			c.addSub(sub)
		}
	}

	t := Table{Categories: make([]Category, len(cats))}
	for i, c := range cats {
		t.Categories[i] = Category{
			Name:          c.name,
			Count:         c.count,
			Subcategories: sortCounts(c.subs, opts.Order),
		}
	}
	sortCategories(t.Categories, opts.Order)
	return t, nil
}

type tally struct {
	name   string
	count  int
	subs   []Count
	subIdx map[string]int
}

func (c *tally) addSub(name string) {
	if i, ok := c.subIdx[name]; ok {
		c.subs[i].Count++
		return
	}
	c.subIdx[name] = len(c.subs)
	c.subs = append(c.subs, Count{Name: name, Count: 1})
}

func columnIndex(header []string, name string) (int, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, h := range header {
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return i, nil
		}
	}
	return -1, apperrors.New(apperrors.ErrCodeMalformedData, "missing column %q (have %s)", name, describeHeader(header))
}

func describeHeader(header []string) string {
	if len(header) == 0 {
		return "no columns"
	}
	quoted := make([]string, len(header))
	for i, h := range header {
		quoted[i] = fmt.Sprintf("%q", h)
	}
	return strings.Join(quoted, ", ")
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func sortCounts(counts []Count, order Order) []Count {
	switch order {
	case OrderCount:
		slices.SortStableFunc(counts, func(a, b Count) int { return cmp.Compare(b.Count, a.Count) })
	case OrderName:
		slices.SortStableFunc(counts, func(a, b Count) int { return cmp.Compare(a.Name, b.Name) })
	}
	return counts
}

func sortCategories(cats []Category, order Order) {
	switch order {
	case OrderCount:
		slices.SortStableFunc(cats, func(a, b Category) int { return cmp.Compare(b.Count, a.Count) })
	case OrderName:
		slices.SortStableFunc(cats, func(a, b Category) int { return cmp.Compare(a.Name, b.Name) })
	}
}
