package pipeline

import (
	"fmt"

	"github.com/icar17/teachload/pkg/teachload"
)

// DanglingRef is a foreign key that no record extracted in this run satisfies.
// The target may still exist in the database from an earlier run.
type DanglingRef struct {
	Entity teachload.Entity
	Key    string
	Column string
	Target teachload.Entity
	Value  string
}

func (d DanglingRef) String() string {
	return fmt.Sprintf("%s %q: %s=%q has no matching %s", d.Entity, d.Key, d.Column, d.Value, d.Target)
}

// CheckReferences lists references between extracted records that do not
// resolve within set. It never modifies set.
func CheckReferences(set *teachload.RecordSet) []DanglingRef {
	keys := make(map[teachload.Entity]map[string]bool, len(teachload.Entities))
	for _, e := range teachload.Entities {
		keys[e] = make(map[string]bool)
		for _, rec := range set.Records(e) {
			keys[e][rec.Key()] = true
		}
	}

	var out []DanglingRef
	for _, e := range teachload.Entities {
		for _, rec := range set.Records(e) {
			for _, ref := range teachload.References(rec) {
				if keys[ref.Target][ref.Value] {
					continue
				}
				out = append(out, DanglingRef{
					Entity: e,
					Key:    rec.Key(),
					Column: ref.Column,
					Target: ref.Target,
					Value:  ref.Value,
				})
			}
		}
	}
	return out
}
