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
	"bufio"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/syncqueue"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/tsv"
)

// Outputs are the match row destinations of a Run.  Secondary is only
// written in SenseSplit mode, and must be non-nil there.
type Outputs struct {
	Primary   io.Writer
	Secondary io.Writer
}

// Stats counts query lines by disposition.
type Stats struct {
	Lines    int64
	Matched  int64
	Skipped  int64
	Filtered int64
	Rows     int64
}

// Result holds the aggregates of one Run.  Secondary is only set in
// SenseSplit mode.
type Result struct {
	Primary   *Table
	Secondary *Table
	Stats     Stats

	opts runOpts
}

// lineCursor hands out query lines one at a time.  The lock is held only
// while one line is read and copied.
type lineCursor struct {
	mu      sync.Mutex
	scanner *bufio.Scanner
	seq     int64
	err     error
}

// next copies the next line into buf and returns it with its sequence
// number.  ok is false at end of input or after a read error.
func (c *lineCursor) next(buf []byte) (line []byte, seq int64, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil || !c.scanner.Scan() {
		if c.err == nil {
			c.err = c.scanner.Err()
		}
		return nil, 0, false
	}
	seq = c.seq
	c.seq++
	return append(buf[:0], c.scanner.Bytes()...), seq, true
}

// sink serializes batch appends to one output stream.
type sink struct {
	mu  sync.Mutex
	w   io.Writer
	err errors.Once
}

func (s *sink) write(p []byte) {
	if len(p) == 0 || s.w == nil {
		return
	}
	s.mu.Lock()
	if s.err.Err() == nil {
		if _, err := s.w.Write(p); err != nil {
			s.err.Set(err)
		}
	}
	s.mu.Unlock()
}

// Run matches every line of queries against db, writing match rows to out
// and aggregating per-record totals.  opts.Strands must name the mode db was
// built for.
//
// Worker goroutines share a line cursor, one lock per output stream and one
// lock per aggregate table.  Unless opts.Ordered is set, rows of different
// query lines may be interleaved in any order; the rows of one line are always
// contiguous and in DB file order.  The aggregates do not depend on
// scheduling: ties are ordered by query line and totals are summed in query
// line order.
func Run(db *DB, queries io.Reader, out Outputs, rawOpts *Opts) (*Result, error) {
	opts, err := rawOpts.validate()
	if err != nil {
		return nil, err
	}
	if opts.mode != db.mode {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("match.Run: DB was built for strand mode %v, not %v", db.mode, opts.mode))
	}
	if db.mode == SenseSplit && out.Secondary == nil {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("match.Run: strand mode %v requires a secondary output", db.mode))
	}
	res := &Result{Primary: newTable(db.seeds), opts: opts}
	tables := [nStream]*Table{res.Primary}
	if db.mode == SenseSplit {
		res.Secondary = newTable(db.seeds)
		tables[streamSecondary] = res.Secondary
	}
	sinks := [nStream]*sink{{w: out.Primary}, {w: out.Secondary}}
	if opts.header {
		for i, table := range tables {
			if table == nil || sinks[i].w == nil {
				continue
			}
			if err := writeRowHeader(tsv.NewWriter(sinks[i].w), db.mode); err != nil {
				return nil, err
			}
		}
	}

	emit := func(b *batch) {
		for i := range b.rows {
			sinks[i].write(b.rows[i])
		}
	}
	var (
		queue     *syncqueue.OrderedQueue
		drainDone chan struct{}
	)
	if opts.ordered {
		queue = syncqueue.NewOrderedQueue(4 * opts.parallelism)
		drainDone = make(chan struct{})
		go func() {
			defer close(drainDone)
			for {
				v, ok, err := queue.Next()
				if err != nil || !ok {
					return
				}
				b := v.(*batch)
				emit(b)
			}
		}()
	}

	cursor := &lineCursor{scanner: newLineScanner(queries)}
	var stats Stats
	err = traverse.Each(opts.parallelism, func(int) error {
		e := newEngine(db, &opts)
		var lineBuf []byte
		for {
			line, seq, ok := cursor.next(lineBuf)
			if !ok {
				return nil
			}
			lineBuf = line
			b, err := e.process(seq, line)
			if err != nil {
				if queue != nil {
					// Fill the gap so the other workers are not blocked.
					_ = queue.Insert(int(seq), &batch{seq: seq})
				}
				return err
			}
			atomic.AddInt64(&stats.Lines, 1)
			switch b.status {
			case lineSkipped:
				atomic.AddInt64(&stats.Skipped, 1)
			case lineFiltered:
				atomic.AddInt64(&stats.Filtered, 1)
			case lineMatched:
				atomic.AddInt64(&stats.Matched, 1)
				atomic.AddInt64(&stats.Rows, int64(b.nMatch))
			}
			for i, table := range tables {
				if table != nil {
					table.Apply(b.updates[i])
				}
			}
			if queue != nil {
				if err := queue.Insert(int(seq), &b); err != nil {
					return err
				}
			} else {
				emit(&b)
			}
		}
	})
	if queue != nil {
		if e := queue.Close(err); e != nil && err == nil {
			err = e
		}
		<-drainDone
	}
	if err != nil {
		return nil, err
	}
	if cursor.err != nil {
		return nil, errors.E(cursor.err, "match.Run: reading queries")
	}
	for _, s := range sinks {
		if err := s.err.Err(); err != nil {
			return nil, errors.E(err, "match.Run: writing matches")
		}
	}
	res.Stats = stats
	log.Printf("match.Run: %d query line(s), %d matched, %d skipped, %d filtered, %d row(s)",
		stats.Lines, stats.Matched, stats.Skipped, stats.Filtered, stats.Rows)
	return res, nil
}
