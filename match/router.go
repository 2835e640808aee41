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
	"github.com/grailbio/base/errors"
)

// placeholderStrand stands in for the missing second strand of a
// single-strand DB.  The tokenizer never produces empty tokens, so no real DB
// partition can have this name.
const placeholderStrand = ""

var (
	// ErrNoStrands is returned when a strand-aware mode is used with a DB
	// that has no strand column.
	ErrNoStrands = errors.E(errors.Invalid, "DB file does not contain a strand identifier column")
	// ErrTooManyStrands is returned when a strand-aware mode is used with a
	// DB that has more than two distinct strand tokens.
	ErrTooManyStrands = errors.E(errors.Invalid, "DB file contains more than two strand identifiers")
)

// StrandRouter maps a query strand to the DB strand partition it is matched
// against.  It is immutable once built.
type StrandRouter struct {
	route map[string]string
}

// NewStrandRouter validates the distinct DB strand tokens for mode and builds
// the routing table.  Ignore needs no router and gets nil.  The sense modes
// are validated but compare strands per candidate, so their router has no
// routes.
func NewStrandRouter(strands []string, mode Mode) (*StrandRouter, error) {
	if !mode.Stranded() {
		return nil, nil
	}
	var lo, hi string
	switch len(strands) {
	case 0:
		return nil, ErrNoStrands
	case 1:
		// Queries on the other strand go to an empty partition rather than
		// failing.
		lo, hi = strands[0], placeholderStrand
	case 2:
		lo, hi = strands[0], strands[1]
	default:
		return nil, ErrTooManyStrands
	}
	r := &StrandRouter{}
	switch mode {
	case SameStrand:
		r.route = map[string]string{lo: lo, hi: hi}
	case OppositeStrand:
		r.route = map[string]string{lo: hi, hi: lo}
	}
	return r, nil
}

// Route returns the DB partition for a query strand.  Strands the DB never
// mentioned take the placeholder's route; with two real DB strands there is
// none, and ok is false.
func (r *StrandRouter) Route(strand string) (partition string, ok bool) {
	if partition, ok = r.route[strand]; ok {
		return
	}
	partition, ok = r.route[placeholderStrand]
	return
}
