package catalog

import (
	"fmt"
	"maps"
)

// DeriveFunc synthesizes an ordered collection from the decoded form
// of an embedded document field. The decoded value may be anything,
// including the original string when decoding failed; implementations
// must degrade to an empty slice rather than fail.
type DeriveFunc func(decoded any) []any

// FieldRule describes one embedded document field: which record field
// to decode, and optionally a derived collection to attach next to it.
// The rule set is configuration, registering a new platform field does
// not touch the traversal logic.
type FieldRule struct {
	// Field is the record key whose value is expected to be a
	// JSON-encoded string.
	Field string
	// Target is the key the derived collection is attached under.
	// Empty means decode only.
	Target string
	// Derive builds the collection from the decoded field value.
	Derive DeriveFunc
}

// Normalizer decodes embedded document fields and attaches their
// derived collections. It holds no state besides its rule table and is
// safe for concurrent use.
type Normalizer struct {
	rules []FieldRule
}

func NewNormalizer(rules []FieldRule) Normalizer {
	return Normalizer{rules: rules}
}

// Normalize decodes every configured embedded field in place and
// attaches the derived collections. Fields outside the rule table pass
// through untouched. The operation is idempotent: decoding an
// already-decoded field is a no-op and re-derivation produces the same
// collections.
func (n Normalizer) Normalize(rec Record) Record {
	for _, rule := range n.rules {
		if raw, ok := rec[rule.Field]; ok {
			rec[rule.Field] = CoerceScalar(raw)
		}
		if rule.Target == "" || rule.Derive == nil {
			continue
		}
		collection := rule.Derive(rec[rule.Field])
		if collection == nil {
			collection = []any{}
		}
		rec[rule.Target] = collection
	}
	return rec
}

// NormalizeAll runs Normalize over a batch. Empty entries are dropped
// and a record that cannot be traversed is replaced with a marker
// record, one bad record never aborts the batch.
func (n Normalizer) NormalizeAll(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if len(rec) == 0 {
			continue
		}
		out = append(out, n.normalizeGuarded(rec))
	}
	return out
}

func (n Normalizer) normalizeGuarded(rec Record) (out Record) {
	defer func() {
		if r := recover(); r != nil {
			out = MarkerRecord(fmt.Sprint(r), rec)
		}
	}()
	return n.Normalize(rec)
}

// DeriveListAt copies the nested list reachable at path inside the
// decoded document, item for item. Anything that is not a mapping with
// a list at that path yields an empty collection.
func DeriveListAt(path ...string) DeriveFunc {
	return func(decoded any) []any {
		items := listAt(decoded, path)
		out := make([]any, 0, len(items))
		out = append(out, items...)
		return out
	}
}

// FanoutRule configures DeriveGroupFanout: where the group list lives,
// which group attributes to carry onto each item, and the key of the
// per-group item list.
type FanoutRule struct {
	Path      []string
	GroupKeys []string
	ItemsKey  string
}

// DeriveGroupFanout flattens a grouped document into one record per
// (group, item) pair. Each group's identifying attributes are merged
// with every item of its nested list, preserving group-then-item
// order. Item fields win over group attributes on conflict.
func DeriveGroupFanout(rule FanoutRule) DeriveFunc {
	return func(decoded any) []any {
		out := []any{}
		for _, g := range listAt(decoded, rule.Path) {
			group, ok := g.(map[string]any)
			if !ok {
				continue
			}
			base := Record{}
			for _, key := range rule.GroupKeys {
				base[key] = group[key]
			}
			items, _ := group[rule.ItemsKey].([]any)
			for _, it := range items {
				item, ok := it.(map[string]any)
				if !ok {
					continue
				}
				merged := Record{}
				maps.Copy(merged, base)
				maps.Copy(merged, item)
				out = append(out, merged)
			}
		}
		return out
	}
}

// listAt walks a chain of object keys and returns the list at the end,
// or nil when the shape does not match.
func listAt(value any, path []string) []any {
	for _, key := range path[:len(path)-1] {
		obj, ok := value.(map[string]any)
		if !ok {
			return nil
		}
		value = obj[key]
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	list, _ := obj[path[len(path)-1]].([]any)
	return list
}
