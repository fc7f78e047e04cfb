package projection

import "strings"

const DefaultPageSize = 4

// View is the persisted list state of one session. The visible projection is
// always derived: facets and query filter the collection, then the active
// sort is re-applied on top of the last-name base order.
type View struct {
	Users    []User `json:"users"`
	Facets   Facets `json:"facets"`
	Query    string `json:"query"`
	Sort     *Sort  `json:"sort,omitempty"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

func NewView(users []User, pageSize int) *View {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &View{
		Users:    ByLastName(users),
		Page:     1,
		PageSize: pageSize,
	}
}

// Replace swaps in a re-fetched collection, keeping facets, query and sort.
func (v *View) Replace(users []User) {
	v.Users = ByLastName(users)
	v.Page = 1
}

func (v *View) ToggleFacet(facet Facet, value string) error {
	if err := v.Facets.Toggle(facet, value); err != nil {
		return err
	}
	v.Page = 1
	return nil
}

// ClearFacet clears one dimension, or all of them when facet is empty.
func (v *View) ClearFacet(facet Facet) error {
	if facet == "" {
		v.Facets.ClearAll()
	} else if err := v.Facets.Clear(facet); err != nil {
		return err
	}
	v.Page = 1
	return nil
}

func (v *View) Search(query string) {
	v.Query = strings.ToLower(query)
	v.Page = 1
}

func (v *View) SortBy(column Column) error {
	next, err := v.Sort.Next(column)
	if err != nil {
		return err
	}
	v.Sort = next
	return nil
}

func (v *View) SetPage(page int) {
	v.Page = max(page, 1)
}

// Visible is the full projection before pagination.
func (v *View) Visible() []User {
	return SortUsers(Filter(v.Users, &v.Facets, v.Query), v.Sort)
}

type Result struct {
	Rows       []Row   `json:"rows"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalPages int     `json:"totalPages"`
	Facets     Facets  `json:"facets"`
	Query      string  `json:"query"`
	Sort       *Sort   `json:"sort,omitempty"`
	Options    Options `json:"options"`
}

func (v *View) Result() *Result {
	visible := v.Visible()
	return &Result{
		Rows:       Rows(Paginate(visible, v.Page, v.PageSize)),
		Total:      len(visible),
		Page:       v.Page,
		PageSize:   v.PageSize,
		TotalPages: TotalPages(len(visible), v.PageSize),
		Facets:     v.Facets,
		Query:      v.Query,
		Sort:       v.Sort,
		Options:    FacetOptions,
	}
}
