package repos

import "gorm.io/gorm"

type changeKind string

const (
	changeAdd    changeKind = "add"
	changeUpdate changeKind = "update"
	changeDelete changeKind = "delete"
)

type change struct {
	kind  changeKind
	apply func(tx *gorm.DB) error
}

// changeSet is the ordered list of writes staged by one unit of work. It is
// owned by a single request and is not safe for concurrent use.
type changeSet struct {
	pending []change
}

func (cs *changeSet) stage(kind changeKind, apply func(tx *gorm.DB) error) {
	cs.pending = append(cs.pending, change{kind: kind, apply: apply})
}

func (cs *changeSet) len() int { return len(cs.pending) }

func (cs *changeSet) drain() []change {
	out := cs.pending
	cs.pending = nil
	return out
}

func (cs *changeSet) counts() map[changeKind]int {
	out := map[changeKind]int{}
	for _, c := range cs.pending {
		out[c.kind]++
	}
	return out
}
