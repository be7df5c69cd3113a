package halo

import (
	"net/url"
	"strconv"
)

// ListParams holds the list options shared by every Halo list endpoint.
// Zero values are omitted from the query string.
type ListParams struct {
	Page          int
	Size          int
	Sort          []string
	LabelSelector []string
	FieldSelector []string
}

// NewListParams returns empty list parameters.
func NewListParams() *ListParams {
	return &ListParams{}
}

// WithPage sets the page number (1-based).
func (p *ListParams) WithPage(page int) *ListParams {
	p.Page = page

	return p
}

// WithSize sets the page size.
func (p *ListParams) WithSize(size int) *ListParams {
	p.Size = size

	return p
}

// WithSort appends sort expressions such as "metadata.creationTimestamp,desc".
func (p *ListParams) WithSort(sort ...string) *ListParams {
	p.Sort = append(p.Sort, sort...)

	return p
}

// WithLabelSelector appends label selector expressions.
func (p *ListParams) WithLabelSelector(selectors ...string) *ListParams {
	p.LabelSelector = append(p.LabelSelector, selectors...)

	return p
}

// WithFieldSelector appends field selector expressions.
func (p *ListParams) WithFieldSelector(selectors ...string) *ListParams {
	p.FieldSelector = append(p.FieldSelector, selectors...)

	return p
}

// ToValues converts the parameters to url.Values. Array parameters are
// repeated once per element and never joined.
func (p *ListParams) ToValues() url.Values {
	values := url.Values{}
	if p == nil {
		return values
	}

	if p.Page > 0 {
		values.Set("page", strconv.Itoa(p.Page))
	}

	if p.Size > 0 {
		values.Set("size", strconv.Itoa(p.Size))
	}

	addAll(values, "sort", p.Sort)
	addAll(values, "labelSelector", p.LabelSelector)
	addAll(values, "fieldSelector", p.FieldSelector)

	return values
}

// AttachmentListParams filters the console attachment search.
type AttachmentListParams struct {
	ListParams

	Keyword string
	// Accepts filters by media type, e.g. "image/*".
	Accepts   []string
	GroupName string
	// Ungrouped restricts the result to attachments outside any group.
	Ungrouped bool
}

// ToValues converts the parameters to url.Values.
func (p *AttachmentListParams) ToValues() url.Values {
	if p == nil {
		return url.Values{}
	}

	values := p.ListParams.ToValues()

	if p.Keyword != "" {
		values.Set("keyword", p.Keyword)
	}

	addAll(values, "accepts", p.Accepts)

	if p.GroupName != "" {
		values.Set("groupName", p.GroupName)
	}

	if p.Ungrouped {
		values.Set("ungrouped", "true")
	}

	return values
}

// PostListParams filters the console post listing.
type PostListParams struct {
	ListParams

	Keyword  string
	Category string
	Tag      string
	// PublishPhase is one of DRAFT, PENDING_APPROVAL, PUBLISHED, FAILED.
	PublishPhase string
	Visible      string
}

// ToValues converts the parameters to url.Values.
func (p *PostListParams) ToValues() url.Values {
	if p == nil {
		return url.Values{}
	}

	values := p.ListParams.ToValues()

	if p.Keyword != "" {
		values.Set("keyword", p.Keyword)
	}

	if p.Category != "" {
		values.Set("category", p.Category)
	}

	if p.Tag != "" {
		values.Set("tag", p.Tag)
	}

	if p.PublishPhase != "" {
		values.Set("publishPhase", p.PublishPhase)
	}

	if p.Visible != "" {
		values.Set("visible", p.Visible)
	}

	return values
}

func addAll(values url.Values, key string, items []string) {
	for _, item := range items {
		if item != "" {
			values.Add(key, item)
		}
	}
}
