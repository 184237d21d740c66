package eventstore

import (
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
)

type FilterEventTypeString = string
type FilterKeyString = string
type FilterValString = string

/***** Filter *****/

// Filter selects the events of one "dynamic event stream".
// The FilterItem(s) are combined with OR.
type Filter struct {
	items []FilterItem
}

func (f Filter) Items() []FilterItem {
	return f.items
}

// Hash returns a stable 64-bit fingerprint of the filter.
//
// Two filters built from the same event types and predicates produce the same Hash, independent of the
// order in which they were supplied, since the builder sorts and deduplicates its input.
// Engines use it to serialize writers of the same stream (e.g. Postgres advisory locks).
func (f Filter) Hash() uint64 {
	return xxhash.Sum64String(f.canonical())
}

func (f Filter) canonical() string {
	var sb strings.Builder

	for i, item := range f.items {
		if i > 0 {
			sb.WriteString("|")
		}

		sb.WriteString(strings.Join(item.eventTypes, ","))
		sb.WriteString("#")

		for j, predicate := range item.predicates {
			if j > 0 {
				sb.WriteString(",")
			}

			sb.WriteString(predicate.key)
			sb.WriteString("=")
			sb.WriteString(predicate.val)
		}
	}

	return sb.String()
}

/***** FilterItem *****/

// FilterItem matches events with ANY of its EventTypes AND ANY of its Predicates.
// An empty list of EventTypes or Predicates is not restrictive.
type FilterItem struct {
	eventTypes []FilterEventTypeString
	predicates []FilterPredicate
}

func (fi FilterItem) EventTypes() []FilterEventTypeString {
	return fi.eventTypes
}

func (fi FilterItem) Predicates() []FilterPredicate {
	return fi.predicates
}

/***** FilterPredicate *****/

// FilterPredicate matches a top-level string property of the event payload JSON.
type FilterPredicate struct {
	key FilterKeyString
	val FilterValString
}

func P(key FilterKeyString, val FilterValString) FilterPredicate {
	return FilterPredicate{key: key, val: val}
}

func (fp FilterPredicate) Key() FilterKeyString {
	return fp.key
}

func (fp FilterPredicate) Val() FilterValString {
	return fp.val
}

/***** FilterBuilder *****/

// FilterBuilder builds a generic event filter which the engines translate into their query language.
// Only the combinations needed for event-sourced workflows are possible:
//
//   - empty filter (any event)
//   - (eventType OR eventType...)
//   - ((eventType OR eventType...) AND (predicate OR predicate...))
//   - multiple of the above, combined with OR
type FilterBuilder interface {
	// Matching starts a new FilterItem.
	Matching() EmptyFilterItemBuilder

	// MatchingAnyEvent directly creates an empty Filter.
	MatchingAnyEvent() Filter
}

type EmptyFilterItemBuilder interface {
	// AnyEventTypeOf adds one or multiple EventTypes to the current FilterItem.
	// Empty EventTypes are removed, the rest is sorted and deduplicated.
	AnyEventTypeOf(eventType FilterEventTypeString, eventTypes ...FilterEventTypeString) FilterItemBuilderLackingPredicates
}

type FilterItemBuilderLackingPredicates interface {
	// AndAnyPredicateOf adds one or multiple FilterPredicate(s) to the current FilterItem.
	// Partial predicates (key or val is "") are removed, the rest is sorted and deduplicated.
	AndAnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder

	CompletedFilterItemBuilder
}

type CompletedFilterItemBuilder interface {
	// OrMatching finalizes the current FilterItem and starts a new one.
	OrMatching() EmptyFilterItemBuilder

	// Finalize returns the Filter.
	Finalize() Filter
}

type filterBuilder struct {
	filter            Filter
	currentFilterItem FilterItem
}

// BuildEventFilter creates a FilterBuilder which must eventually be finalized with Finalize() or MatchingAnyEvent().
func BuildEventFilter() FilterBuilder {
	return filterBuilder{}
}

func (fb filterBuilder) Matching() EmptyFilterItemBuilder {
	fb.currentFilterItem = FilterItem{}

	return fb
}

func (fb filterBuilder) MatchingAnyEvent() Filter {
	return Filter{}
}

func (fb filterBuilder) AnyEventTypeOf(
	eventType FilterEventTypeString,
	eventTypes ...FilterEventTypeString,
) FilterItemBuilderLackingPredicates {

	all := append([]FilterEventTypeString{eventType}, eventTypes...)
	all = slices.DeleteFunc(all, func(et FilterEventTypeString) bool { return et == "" })
	slices.Sort(all)

	fb.currentFilterItem.eventTypes = slices.Compact(all)

	return fb
}

func (fb filterBuilder) AndAnyPredicateOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) CompletedFilterItemBuilder {

	all := append([]FilterPredicate{predicate}, predicates...)
	all = slices.DeleteFunc(all, func(p FilterPredicate) bool { return p.key == "" || p.val == "" })
	slices.SortFunc(all, func(a, b FilterPredicate) int {
		if c := strings.Compare(a.key, b.key); c != 0 {
			return c
		}

		return strings.Compare(a.val, b.val)
	})

	fb.currentFilterItem.predicates = slices.Compact(all)

	return fb
}

func (fb filterBuilder) OrMatching() EmptyFilterItemBuilder {
	fb.filter.items = append(slices.Clone(fb.filter.items), fb.currentFilterItem)
	fb.currentFilterItem = FilterItem{}

	return fb
}

func (fb filterBuilder) Finalize() Filter {
	items := append(slices.Clone(fb.filter.items), fb.currentFilterItem)
	items = slices.DeleteFunc(items, func(item FilterItem) bool {
		return len(item.eventTypes) == 0 && len(item.predicates) == 0
	})

	return Filter{items: items}
}
