package logs

import (
	"github.com/charliek/syslogdash/internal/constants"
	"github.com/charliek/syslogdash/internal/domain"
)

// PageResult is the derived, visible slice of the filtered entries.
type PageResult struct {
	Entries       []domain.LogEntry
	Page          int
	TotalPages    int
	FilteredCount int
}

// View holds the filter and pagination state. The visible page is always derived
// from the current buffer contents; nothing is cached between renders.
type View struct {
	filter   domain.FilterState
	page     int
	pageSize int
}

// NewView creates a view on page 1 with no filters
func NewView(pageSize int) *View {
	if pageSize <= 0 {
		pageSize = constants.PageSize
	}
	return &View{page: 1, pageSize: pageSize}
}

// Filter returns the current filter state
func (v *View) Filter() domain.FilterState {
	return v.filter
}

// CurrentPage returns the stored page number (before clamping)
func (v *View) CurrentPage() int {
	return v.page
}

// PageSize returns the number of entries per page
func (v *View) PageSize() int {
	return v.pageSize
}

// SetSearch sets the search text and resets to page 1
func (v *View) SetSearch(text string) {
	v.filter.Search = text
	v.page = 1
}

// SetFacility sets the facility filter (nil for all) and resets to page 1
func (v *View) SetFacility(f *domain.Facility) {
	v.filter.Facility = f
	v.page = 1
}

// SetSeverity sets the severity filter (nil for all) and resets to page 1
func (v *View) SetSeverity(s *domain.Severity) {
	v.filter.Severity = s
	v.page = 1
}

// ClearFilters removes every filter and resets to page 1
func (v *View) ClearFilters() {
	v.filter = domain.FilterState{}
	v.page = 1
}

// ResetPage moves back to page 1
func (v *View) ResetPage() {
	v.page = 1
}

// PrevPage moves one page back; no-op on page 1.
func (v *View) PrevPage() bool {
	if v.page <= 1 {
		return false
	}
	v.page--
	return true
}

// NextPage moves one page forward; no-op at or beyond the last page of entries.
func (v *View) NextPage(entries []domain.LogEntry) bool {
	total := TotalPages(len(FilterEntries(entries, v.filter)), v.pageSize)
	if v.page >= total {
		return false
	}
	v.page++
	return true
}

// Page derives the visible page from entries. The stored page is clamped to
// [1, max(totalPages, 1)] so a shrunken buffer never yields an empty page past the end.
func (v *View) Page(entries []domain.LogEntry) PageResult {
	filtered := FilterEntries(entries, v.filter)
	total := TotalPages(len(filtered), v.pageSize)

	if v.page > max(total, 1) {
		v.page = max(total, 1)
	}
	if v.page < 1 {
		v.page = 1
	}

	start := (v.page - 1) * v.pageSize
	end := min(start+v.pageSize, len(filtered))
	if start > end {
		start = end
	}

	return PageResult{
		Entries:       filtered[start:end],
		Page:          v.page,
		TotalPages:    total,
		FilteredCount: len(filtered),
	}
}

// TotalPages returns ceil(n/size), which is 0 for an empty set
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}
