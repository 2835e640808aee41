// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package match

import (
	"sort"
	"sync"

	"github.com/grailbio/bio-match/interval"
)

// Entry is the running aggregate for one DB record.
type Entry struct {
	ID string
	// Chrom is the chromosome of the last DB line carrying ID.
	Chrom string
	// Hits counts overlapping queries.
	Hits int
	// Total is the summed weight of every overlapping query, added in query
	// input order.  It is only set on entries returned by Get and Entries.
	Total float64
	// Max is the largest single query weight seen, or 0 if every weight was
	// negative or there were no hits.
	Max float64
	// Positions lists the query start positions that contributed Max, in query
	// input order.  Untouched records hold the single position 0.
	Positions []interval.PosType

	// seqs[i] is the query line sequence number of Positions[i].
	seqs []int64
	// weights holds every contribution to Total.  Float addition is not
	// associative, so Total is summed in line order when the entry is read.
	weights []weightAt
}

type weightAt struct {
	seq    int64
	weight float64
}

// seedSeq orders the seed position before every query line.
const seedSeq = -1

// Update is one overlap's contribution to a record.
type Update struct {
	ID     string
	Weight float64
	Pos    interval.PosType
	// Seq is the query line sequence number, used to order ties.
	Seq int64
}

func (e *Entry) add(u Update) {
	e.Hits++
	e.weights = append(e.weights, weightAt{seq: u.Seq, weight: u.Weight})
	switch {
	case u.Weight > e.Max:
		e.Max = u.Weight
		e.Positions = append(e.Positions[:0], u.Pos)
		e.seqs = append(e.seqs[:0], u.Seq)
	case u.Weight == e.Max:
		// Workers may deliver lines out of order; insert after every tie from
		// an earlier or equal line.
		i := sort.Search(len(e.seqs), func(i int) bool { return e.seqs[i] > u.Seq })
		e.Positions = append(e.Positions, 0)
		copy(e.Positions[i+1:], e.Positions[i:])
		e.Positions[i] = u.Pos
		e.seqs = append(e.seqs, 0)
		copy(e.seqs[i+1:], e.seqs[i:])
		e.seqs[i] = u.Seq
	}
}

// Table maps DB record IDs to their aggregates.  It is safe for concurrent
// use; each Apply call holds the table lock once.
type Table struct {
	mu      sync.Mutex
	entries map[string]*Entry
}

// newTable creates a table with a zeroed entry for every seed, so records
// without hits still appear in the totals.
func newTable(seeds []seed) *Table {
	t := &Table{entries: make(map[string]*Entry, len(seeds))}
	for _, s := range seeds {
		t.entries[s.id] = &Entry{
			ID:        s.id,
			Chrom:     s.chrom,
			Positions: []interval.PosType{0},
			seqs:      []int64{seedSeq},
		}
	}
	return t
}

// Apply adds a batch of updates.  Updates for IDs that were never seeded are
// dropped.
func (t *Table) Apply(updates []Update) {
	if len(updates) == 0 {
		return
	}
	t.mu.Lock()
	for _, u := range updates {
		if e := t.entries[u.ID]; e != nil {
			e.add(u)
		}
	}
	t.mu.Unlock()
}

// Len returns the number of records in the table.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Get returns a copy of the entry for id.
func (t *Table) Get(id string) (Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.entries[id]
	if e == nil {
		return Entry{}, false
	}
	return e.snapshot(), true
}

// Entries returns copies of all entries, sorted by ID.
func (t *Table) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	result := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		result = append(result, e.snapshot())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (e *Entry) snapshot() Entry {
	// Updates of one line arrive in a single batch, so a stable sort by line
	// restores the serial order.
	sort.SliceStable(e.weights, func(i, j int) bool { return e.weights[i].seq < e.weights[j].seq })
	c := *e
	c.Total = 0
	for _, w := range e.weights {
		c.Total += w.weight
	}
	c.Positions = append([]interval.PosType(nil), e.Positions...)
	c.seqs = nil
	c.weights = nil
	return c
}
