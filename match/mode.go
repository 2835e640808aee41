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
	"fmt"
)

// Mode selects how strand identifiers take part in matching.
type Mode int

const (
	// Ignore matches on chromosome and position only.  Strand columns are
	// neither required nor reported.
	Ignore Mode = iota
	// SameStrand reports only hits where the query and DB strands agree.
	SameStrand
	// OppositeStrand reports only hits where the query and DB strands differ.
	OppositeStrand
	// SenseFlag reports every hit, flagged as sense or antisense.
	SenseFlag
	// SenseSplit reports sense hits to the primary outputs and antisense hits
	// to the secondary outputs.
	SenseSplit
)

var modeNames = [...]string{
	Ignore:         "i",
	SameStrand:     "s",
	OppositeStrand: "o",
	SenseFlag:      "bf",
	SenseSplit:     "bs",
}

// ParseMode maps a command-line strand-handling token ("i", "s", "o", "bf",
// "bs") to a Mode.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if s == name {
			return Mode(m), nil
		}
	}
	return Ignore, fmt.Errorf("%q is not a supported strand mode (want one of i, s, o, bf, bs)", s)
}

// String returns the command-line token for m.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// Stranded reports whether input lines must carry a strand column.
func (m Mode) Stranded() bool { return m != Ignore }

// partitioned reports whether the store is split by strand and queries are
// routed to a partition.  The sense modes compare strands per candidate
// instead.
func (m Mode) partitioned() bool { return m == SameStrand || m == OppositeStrand }
