package catalog

// SortOption orders query results by creation time.
type SortOption string

const (
	SortLatest SortOption = "latest"
	SortOldest SortOption = "oldest"
)

// ParseSort maps a raw value to a SortOption. Anything unrecognized is SortLatest.
func ParseSort(raw string) SortOption {
	switch SortOption(raw) {
	case SortOldest:
		return SortOldest
	default:
		return SortLatest
	}
}

// Label is the text shown in the sort dropdown.
func (s SortOption) Label() string {
	if s == SortOldest {
		return "Oldest"
	}
	return "Latest"
}

// SortOptions lists the selectable orders in display order.
func SortOptions() []SortOption {
	return []SortOption{SortLatest, SortOldest}
}
