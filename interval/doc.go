/*Package interval holds named genomic intervals loaded from whitespace-delimited
  text, indexed per chromosome (and optionally per strand) for overlap
  queries.

  Coordinates are compared as closed intervals [Start, End]; no ordering of
  Start and End is enforced, and inverted intervals are matched with the same
  formula as well-formed ones.  Every bucket remembers the file order of its
  intervals, and overlap queries report candidates in that order.
*/
package interval
