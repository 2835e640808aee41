package interval

import (
	"sort"

	itree "github.com/biogo/store/interval"
	"github.com/grailbio/base/log"
)

type bucketKey struct {
	strand string
	chrom  string
}

// bucket holds the intervals of one (strand, chromosome) partition in file
// order.  Intervals the tree cannot represent (End < Start, or coordinates
// past treeBound) are listed in linear and scanned on every query.
type bucket struct {
	entries []Interval
	tree    itree.IntTree
	linear  []int
}

// treeBound limits the coordinates held by the tree.  The tree orders and
// bounds nodes with int arithmetic on starts and ends, which must neither
// overflow nor truncate; intervals reaching past the bound are scanned
// linearly instead.
const treeBound = PosType(^uint(0) >> 3)

func treeable(e *Interval) bool {
	return e.Start <= e.End &&
		e.Start >= -treeBound && e.Start <= treeBound &&
		e.End >= -treeBound && e.End <= treeBound
}

// treeEntry is the tree's view of bucket.entries[idx].  Ranges are stored
// half-open, [Start, End+1), so that single-position intervals are non-empty.
type treeEntry struct {
	idx        int
	start, end PosType
}

func (e treeEntry) Overlap(r itree.IntRange) bool {
	return PosType(r.End) > e.start && PosType(r.Start) <= e.end
}
func (e treeEntry) Range() itree.IntRange {
	return itree.IntRange{Start: int(e.start), End: int(e.end) + 1}
}
func (e treeEntry) ID() uintptr { return uintptr(e.idx) }

// closedQuery matches tree ranges against the closed interval [start, end].
// It is only ever used as a query, never inserted.
type closedQuery struct {
	start, end PosType
}

func (q closedQuery) Overlap(r itree.IntRange) bool {
	// r is half-open; its last position is r.End-1.
	return PosType(r.End) > q.start && PosType(r.Start) <= q.end
}

// Store is a set of intervals partitioned by chromosome and, if requested, by
// strand.  It is populated with Add, then Freeze builds the per-bucket
// indexes.  After Freeze the Store is immutable and safe for concurrent use.
type Store struct {
	byStrand bool
	buckets  map[bucketKey]*bucket
	strands  map[string]struct{}
	n        int
	frozen   bool
}

// NewStore creates an empty Store.  If byStrand is set, intervals are
// partitioned by their Strand field as well as their chromosome.
func NewStore(byStrand bool) *Store {
	return &Store{
		byStrand: byStrand,
		buckets:  map[bucketKey]*bucket{},
		strands:  map[string]struct{}{},
	}
}

func (s *Store) key(strand, chrom string) bucketKey {
	if !s.byStrand {
		strand = ""
	}
	return bucketKey{strand: strand, chrom: chrom}
}

// Add appends iv to its bucket and registers its strand token, if any.
//
// REQUIRES: Freeze has not been called.
func (s *Store) Add(iv Interval) {
	if s.frozen {
		log.Panicf("interval.Store.Add: store is frozen")
	}
	k := s.key(iv.Strand, iv.Chrom)
	b := s.buckets[k]
	if b == nil {
		b = &bucket{}
		s.buckets[k] = b
	}
	b.entries = append(b.entries, iv)
	if iv.Strand != "" {
		s.strands[iv.Strand] = struct{}{}
	}
	s.n++
}

// Freeze indexes every bucket.  It is idempotent.
func (s *Store) Freeze() {
	if s.frozen {
		return
	}
	nLinear := 0
	for _, b := range s.buckets {
		for i := range b.entries {
			e := &b.entries[i]
			if !treeable(e) {
				b.linear = append(b.linear, i)
				continue
			}
			if err := b.tree.Insert(treeEntry{idx: i, start: e.Start, end: e.End}, true); err != nil {
				b.linear = append(b.linear, i)
			}
		}
		if b.tree.Len() > 0 {
			b.tree.AdjustRanges()
		}
		nLinear += len(b.linear)
	}
	s.frozen = true
	log.Debug.Printf("interval.Store: indexed %d interval(s) in %d bucket(s), %d scanned linearly",
		s.n, len(s.buckets), nLinear)
}

// Len returns the number of intervals added to the store.
func (s *Store) Len() int { return s.n }

// Strands returns the distinct strand tokens seen by Add, sorted.
func (s *Store) Strands() []string {
	strands := make([]string, 0, len(s.strands))
	for strand := range s.strands {
		strands = append(strands, strand)
	}
	sort.Strings(strands)
	return strands
}

// Overlapping returns the intervals in the (strand, chrom) bucket that
// overlap the closed interval [start, end], in the order they were added.
// strand is ignored unless the store is partitioned by strand.  A missing
// bucket yields nil.
//
// REQUIRES: Freeze has been called.
func (s *Store) Overlapping(strand, chrom string, start, end PosType) []*Interval {
	b := s.buckets[s.key(strand, chrom)]
	if b == nil {
		return nil
	}
	var idxs []int
	if b.tree.Len() > 0 {
		b.tree.DoMatching(func(e itree.IntInterface) bool {
			idxs = append(idxs, int(e.ID()))
			return false
		}, closedQuery{start: start, end: end})
	}
	for _, i := range b.linear {
		e := &b.entries[i]
		if Overlaps(e.Start, e.End, start, end) {
			idxs = append(idxs, i)
		}
	}
	if len(idxs) == 0 {
		return nil
	}
	sort.Ints(idxs)
	result := make([]*Interval, len(idxs))
	for i, idx := range idxs {
		result[i] = &b.entries[idx]
	}
	return result
}

