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

/*Package match reports overlaps between a set of reference ("DB") intervals
  and a stream of query intervals, and aggregates per-record totals.

  A DB is loaded once with Build and is then read-only.  Run matches queries
  against it with a pool of workers; every overlap produces one row

    dbText  queryText  shape [sense]

  where shape is one of B (query contained in DB), S (query starts inside),
  E (query ends inside) or C (query contains DB), and sense (S or A) is only
  present in SenseFlag mode.  Each overlap also updates the aggregate for its
  DB record: the summed query weight, the largest single weight, and the
  start positions of every query tied at that largest weight, in query input
  order.

  MatchFiles wraps Build and Run with file handling and output naming for the
  bio-match command.
*/
package match
