package notifyhub

import (
	"slices"
	"time"
)

type FilterEventTypeString = string
type FilterKeyString = string
type FilterValString = string

/***** Filter *****/

type Filter struct {
	items         []FilterItem
	outcomes      []DeliveryOutcome
	occurredFrom  time.Time
	occurredUntil time.Time
}

func (f Filter) Items() []FilterItem {
	return f.items
}

func (f Filter) Outcomes() []DeliveryOutcome {
	return f.outcomes
}

func (f Filter) OccurredFrom() time.Time {
	return f.occurredFrom
}

func (f Filter) OccurredUntil() time.Time {
	return f.occurredUntil
}

/***** FilterItem *****/

type FilterItem struct {
	eventTypes             []FilterEventTypeString
	predicates             []FilterPredicate
	allPredicatesMustMatch bool
}

func (fi FilterItem) EventTypes() []FilterEventTypeString {
	return fi.eventTypes
}

func (fi FilterItem) Predicates() []FilterPredicate {
	return fi.predicates
}

func (fi FilterItem) AllPredicatesMustMatch() bool {
	return fi.allPredicatesMustMatch
}

/***** FilterPredicate *****/

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

// FilterBuilder builds a generic delivery filter to be used in journal implementations to build queries for
// the specific query language, e.g.: Postgres, Mysql, MongoDB, ...
// It is designed with the idea to only allow "useful" filter combinations for delivery audit workflows:
//
//   - empty filter
//   - (eventType)
//   - (eventType OR eventType...)
//   - (predicate)
//   - (predicate OR predicate...)
//   - (predicate AND predicate...)
//   - (eventType AND predicate)
//   - (eventType AND (predicate OR predicate...))
//   - (eventType AND (predicate AND predicate...))
//   - ((eventType OR eventType...) AND (predicate OR predicate...))
//   - ((eventType OR eventType...) AND (predicate AND predicate...))
//   - ((eventType AND predicate) OR (eventType AND predicate)...) -> multiple FilterItem(s)
//
// Every combination can additionally be restricted to delivery outcomes
// (AnyOutcomeOf) and to a time range (OccurredFrom/OccurredUntil).
type FilterBuilder interface {
	// Matching starts a new FilterItem.
	Matching() EmptyFilterItemBuilder

	// MatchingAnyDelivery directly creates an empty Filter.
	MatchingAnyDelivery() Filter

	// AnyOutcomeOf restricts the Filter to deliveries with ANY of the given outcomes.
	//
	// It sanitizes the input:
	//	- removing empty outcomes ("")
	//	- sorting the outcomes
	//	- removing duplicate outcomes
	AnyOutcomeOf(outcome DeliveryOutcome, outcomes ...DeliveryOutcome) FilterOutcomesBuilder

	// OccurredFrom restricts the Filter to deliveries of notifications that occurred at or after the given time.
	OccurredFrom(from time.Time) FilterOccurredFromBuilder

	// OccurredUntil restricts the Filter to deliveries of notifications that occurred at or before the given time.
	OccurredUntil(until time.Time) CompletedFilterBuilder
}

type EmptyFilterItemBuilder interface {
	// AnyEventTypeOf adds one or multiple EventTypes to the current FilterItem.
	//
	// It sanitizes the input:
	//	- removing empty EventTypes ("")
	//	- sorting the EventTypes
	//	- removing duplicate EventTypes
	AnyEventTypeOf(eventType FilterEventTypeString, eventTypes ...FilterEventTypeString) FilterItemBuilderLackingPredicates

	// AnyPredicateOf adds one or multiple FilterPredicate(s) to the current FilterItem.
	//
	// It sanitizes the input:
	//	- removing empty/partial FilterPredicate(s) (key or val is "")
	//	- sorting the FilterPredicate(s)
	//	- removing duplicate FilterPredicate(s)
	AnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterItemBuilderLackingEventTypes

	AllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterItemBuilderLackingEventTypes
}

type FilterItemBuilderLackingPredicates interface {
	// AndAnyPredicateOf adds one or multiple FilterPredicate(s) to the current FilterItem.
	//
	// It sanitizes the input:
	//	- removing empty/partial FilterPredicate(s) (key or val is "")
	//	- sorting the FilterPredicate(s)
	//	- removing duplicate FilterPredicate(s)
	AndAnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder

	AndAllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder

	// OrMatching finalizes the current FilterItem and starts a new one.
	OrMatching() EmptyFilterItemBuilder

	// AnyOutcomeOf restricts the Filter to deliveries with ANY of the given outcomes.
	AnyOutcomeOf(outcome DeliveryOutcome, outcomes ...DeliveryOutcome) FilterOutcomesBuilder

	// OccurredFrom restricts the Filter to deliveries of notifications that occurred at or after the given time.
	OccurredFrom(from time.Time) FilterOccurredFromBuilder

	// OccurredUntil restricts the Filter to deliveries of notifications that occurred at or before the given time.
	OccurredUntil(until time.Time) CompletedFilterBuilder

	// Finalize returns the Filter once it has at least one FilterItem with at least one EventType OR one Predicate.
	Finalize() Filter
}

type FilterItemBuilderLackingEventTypes interface {
	// AndAnyEventTypeOf adds one or multiple EventTypes to the current FilterItem.
	//
	// It sanitizes the input:
	//	- removing empty EventTypes ("")
	//	- sorting the EventTypes
	//	- removing duplicate EventTypes
	AndAnyEventTypeOf(eventType FilterEventTypeString, eventTypes ...FilterEventTypeString) CompletedFilterItemBuilder

	// OrMatching finalizes the current FilterItem and starts a new one.
	OrMatching() EmptyFilterItemBuilder

	// AnyOutcomeOf restricts the Filter to deliveries with ANY of the given outcomes.
	AnyOutcomeOf(outcome DeliveryOutcome, outcomes ...DeliveryOutcome) FilterOutcomesBuilder

	// OccurredFrom restricts the Filter to deliveries of notifications that occurred at or after the given time.
	OccurredFrom(from time.Time) FilterOccurredFromBuilder

	// OccurredUntil restricts the Filter to deliveries of notifications that occurred at or before the given time.
	OccurredUntil(until time.Time) CompletedFilterBuilder

	// Finalize returns the Filter once it has at least one FilterItem with at least one EventType OR one Predicate.
	Finalize() Filter
}

type CompletedFilterItemBuilder interface {
	// OrMatching finalizes the current FilterItem and starts a new one.
	OrMatching() EmptyFilterItemBuilder

	// AnyOutcomeOf restricts the Filter to deliveries with ANY of the given outcomes.
	AnyOutcomeOf(outcome DeliveryOutcome, outcomes ...DeliveryOutcome) FilterOutcomesBuilder

	// OccurredFrom restricts the Filter to deliveries of notifications that occurred at or after the given time.
	OccurredFrom(from time.Time) FilterOccurredFromBuilder

	// OccurredUntil restricts the Filter to deliveries of notifications that occurred at or before the given time.
	OccurredUntil(until time.Time) CompletedFilterBuilder

	// Finalize returns the Filter once it has at least one FilterItem with at least one EventType OR one Predicate.
	Finalize() Filter
}

type FilterOutcomesBuilder interface {
	// OccurredFrom restricts the Filter to deliveries of notifications that occurred at or after the given time.
	OccurredFrom(from time.Time) FilterOccurredFromBuilder

	// OccurredUntil restricts the Filter to deliveries of notifications that occurred at or before the given time.
	OccurredUntil(until time.Time) CompletedFilterBuilder

	// Finalize returns the Filter.
	Finalize() Filter
}

type FilterOccurredFromBuilder interface {
	// AndOccurredUntil restricts the Filter to deliveries of notifications that occurred at or before the given time.
	AndOccurredUntil(until time.Time) CompletedFilterBuilder

	// Finalize returns the Filter.
	Finalize() Filter
}

type CompletedFilterBuilder interface {
	// Finalize returns the Filter.
	Finalize() Filter
}

// filterBuilder implements all the interfaces of FilterBuilder
type filterBuilder struct {
	filter            Filter
	currentFilterItem FilterItem
}

// BuildDeliveryFilter creates a FilterBuilder which must eventually be finalized with Finalize() or MatchingAnyDelivery().
func BuildDeliveryFilter() FilterBuilder {
	return filterBuilder{}
}

// Matching starts a new FilterItem.
func (fb filterBuilder) Matching() EmptyFilterItemBuilder {
	fb.currentFilterItem = FilterItem{}

	return fb
}

// AnyEventTypeOf adds one or multiple EventTypes to the current FilterItem expecting ANY EventType to match.
//
// It sanitizes the input:
//   - removing empty EventTypes ("")
//   - sorting the EventTypes
//   - removing duplicate EventTypes
func (fb filterBuilder) AnyEventTypeOf(
	eventType FilterEventTypeString,
	eventTypes ...FilterEventTypeString,
) FilterItemBuilderLackingPredicates {

	fb.currentFilterItem.eventTypes = append(
		fb.currentFilterItem.eventTypes,
		fb.sanitizeEventTypes(eventType, eventTypes...)...,
	)

	return fb
}

// AndAnyEventTypeOf adds one or multiple EventTypes to the current FilterItem expecting ANY EventType to match.
//
// It sanitizes the input:
//   - removing empty EventTypes ("")
//   - sorting the EventTypes
//   - removing duplicate EventTypes
func (fb filterBuilder) AndAnyEventTypeOf(
	eventType FilterEventTypeString,
	eventTypes ...FilterEventTypeString,
) CompletedFilterItemBuilder {

	fb.currentFilterItem.eventTypes = append(
		fb.currentFilterItem.eventTypes,
		fb.sanitizeEventTypes(eventType, eventTypes...)...,
	)

	return fb
}

func (fb filterBuilder) sanitizeEventTypes(
	eventType FilterEventTypeString,
	eventTypes ...FilterEventTypeString,
) []FilterEventTypeString {

	allEventTypes := append([]FilterEventTypeString{eventType}, eventTypes...)
	allEventTypes = slices.DeleteFunc(
		allEventTypes,
		func(e FilterEventTypeString) bool {
			return e == ""
		})
	slices.Sort(allEventTypes)
	allEventTypes = slices.Compact(allEventTypes)
	allEventTypes = slices.Clip(allEventTypes)

	return allEventTypes
}

// AnyPredicateOf adds one or multiple FilterPredicate(s) to the current FilterItem expecting ANY predicate to match.
//
// It sanitizes the input:
//   - removing empty/partial FilterPredicate(s) (key or val is "")
//   - sorting the FilterPredicate(s)
//   - removing duplicate FilterPredicate(s)
func (fb filterBuilder) AnyPredicateOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) FilterItemBuilderLackingEventTypes {

	fb.currentFilterItem.predicates = append(
		fb.currentFilterItem.predicates,
		fb.sanitizePredicates(predicate, predicates...)...,
	)

	return fb
}

// AndAnyPredicateOf adds one or multiple FilterPredicate(s) to the current FilterItem expecting ANY predicate to match.
//
// It sanitizes the input:
//   - removing empty/partial FilterPredicate(s) (key or val is "")
//   - sorting the FilterPredicate(s)
//   - removing duplicate FilterPredicate(s)
func (fb filterBuilder) AndAnyPredicateOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) CompletedFilterItemBuilder {

	fb.currentFilterItem.predicates = append(
		fb.currentFilterItem.predicates,
		fb.sanitizePredicates(predicate, predicates...)...,
	)

	return fb
}

// AllPredicatesOf adds one or multiple FilterPredicate(s) to the current FilterItem expecting ALL predicates to match.
//
// It sanitizes the input:
//   - removing empty/partial FilterPredicate(s) (key or val is "")
//   - sorting the FilterPredicate(s)
//   - removing duplicate FilterPredicate(s)
func (fb filterBuilder) AllPredicatesOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) FilterItemBuilderLackingEventTypes {

	fb.currentFilterItem.allPredicatesMustMatch = true

	fb.currentFilterItem.predicates = append(
		fb.currentFilterItem.predicates,
		fb.sanitizePredicates(predicate, predicates...)...,
	)

	return fb
}

// AndAllPredicatesOf adds one or multiple FilterPredicate(s) to the current FilterItem expecting ALL predicates to match.
//
// It sanitizes the input:
//   - removing empty/partial FilterPredicate(s) (key or val is "")
//   - sorting the FilterPredicate(s)
//   - removing duplicate FilterPredicate(s)
func (fb filterBuilder) AndAllPredicatesOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) CompletedFilterItemBuilder {

	fb.currentFilterItem.allPredicatesMustMatch = true

	fb.currentFilterItem.predicates = append(
		fb.currentFilterItem.predicates,
		fb.sanitizePredicates(predicate, predicates...)...,
	)

	return fb
}

func (fb filterBuilder) sanitizePredicates(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) []FilterPredicate {

	allPredicates := append([]FilterPredicate{predicate}, predicates...)
	allPredicates = slices.DeleteFunc(allPredicates, func(e FilterPredicate) bool { return len(e.key) == 0 || len(e.val) == 0 })
	slices.SortFunc(
		allPredicates,
		func(a, b FilterPredicate) int {
			if a.key > b.key {
				return 1
			}

			if a.key < b.key {
				return -1
			}

			return 0
		})

	allPredicates = slices.Compact(allPredicates)
	allPredicates = slices.Clip(allPredicates)

	return allPredicates
}

// AnyOutcomeOf restricts the Filter to deliveries with ANY of the given outcomes.
//
// It sanitizes the input:
//   - removing empty outcomes ("")
//   - sorting the outcomes
//   - removing duplicate outcomes
func (fb filterBuilder) AnyOutcomeOf(
	outcome DeliveryOutcome,
	outcomes ...DeliveryOutcome,
) FilterOutcomesBuilder {

	fb.filter.outcomes = append(
		fb.filter.outcomes,
		fb.sanitizeOutcomes(outcome, outcomes...)...,
	)

	return fb
}

func (fb filterBuilder) sanitizeOutcomes(
	outcome DeliveryOutcome,
	outcomes ...DeliveryOutcome,
) []DeliveryOutcome {

	allOutcomes := append([]DeliveryOutcome{outcome}, outcomes...)
	allOutcomes = slices.DeleteFunc(
		allOutcomes,
		func(o DeliveryOutcome) bool {
			return o == ""
		})
	slices.Sort(allOutcomes)
	allOutcomes = slices.Compact(allOutcomes)
	allOutcomes = slices.Clip(allOutcomes)

	return allOutcomes
}

// OccurredFrom restricts the Filter to deliveries of notifications that occurred at or after the given time.
func (fb filterBuilder) OccurredFrom(from time.Time) FilterOccurredFromBuilder {
	fb.filter.occurredFrom = from

	return fb
}

// OccurredUntil restricts the Filter to deliveries of notifications that occurred at or before the given time.
func (fb filterBuilder) OccurredUntil(until time.Time) CompletedFilterBuilder {
	fb.filter.occurredUntil = until

	return fb
}

// AndOccurredUntil restricts the Filter to deliveries of notifications that occurred at or before the given time.
func (fb filterBuilder) AndOccurredUntil(until time.Time) CompletedFilterBuilder {
	fb.filter.occurredUntil = until

	return fb
}

// OrMatching finalizes the current FilterItem and starts a new one.
func (fb filterBuilder) OrMatching() EmptyFilterItemBuilder {
	fb.filter.items = append(fb.filter.items, fb.currentFilterItem)
	fb.currentFilterItem = FilterItem{}

	return fb
}

// MatchingAnyDelivery directly creates an empty filter.
func (fb filterBuilder) MatchingAnyDelivery() Filter {
	return fb.filter
}

// Finalize returns the Filter once it has at least one FilterItem with at least one EventType OR one Predicate.
func (fb filterBuilder) Finalize() Filter {
	fb.filter.items = append(fb.filter.items, fb.currentFilterItem)

	return fb.filter
}
