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
	"runtime"

	"github.com/grailbio/bio-match/interval"
)

type Opts struct {
	// Commandline options.
	Strands     string
	Parallelism int
	Aggregate   string
	OmitZero    bool
	Header      bool
	Ordered     bool
	Bgzip       bool
	Region      string
}

var DefaultOpts = Opts{
	Strands:     "i",
	Parallelism: 1,
	Aggregate:   "max",
	OmitZero:    false,
	Header:      false,
	Ordered:     false,
	Bgzip:       false,
}

// aggregateKind selects the totals report layout.
type aggregateKind int

const (
	aggregateMax aggregateKind = iota
	aggregateSum
)

// runOpts is the validated form of Opts.
type runOpts struct {
	mode        Mode
	parallelism int
	aggregate   aggregateKind
	omitZero    bool
	header      bool
	ordered     bool
	bgzip       bool
	region      *interval.Region
}

func (o *Opts) validate() (opts runOpts, err error) {
	if opts.mode, err = ParseMode(o.Strands); err != nil {
		return
	}
	opts.parallelism = o.Parallelism
	if opts.parallelism < 0 {
		return opts, fmt.Errorf("match: invalid parallelism %d", o.Parallelism)
	}
	if opts.parallelism == 0 {
		opts.parallelism = runtime.NumCPU()
	}
	switch o.Aggregate {
	case "", "max":
		opts.aggregate = aggregateMax
	case "sum":
		opts.aggregate = aggregateSum
	default:
		return opts, fmt.Errorf("match: unrecognized aggregate %q (want max or sum)", o.Aggregate)
	}
	if o.Region != "" {
		var region interval.Region
		if region, err = interval.ParseRegion(o.Region); err != nil {
			return
		}
		opts.region = &region
	}
	opts.omitZero = o.OmitZero
	opts.header = o.Header
	opts.ordered = o.Ordered
	opts.bgzip = o.Bgzip
	return opts, nil
}
