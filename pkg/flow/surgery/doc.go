// Package surgery provides graph queries and structural edits over a
// [flow.Graph]: reachability and ancestry sets, shortest paths, linear
// chain detection, and the chain-editing operations (insert, remove with
// reconnect, yank, splice, reverse, extract, rebase).
//
// Every operation runs in a single O(V+E) pass over the link list and
// completes synchronously. Operations referencing ids that are not in the
// graph are no-ops or return empty results; callers needing existence
// checks query the graph first. Where an operation has to pick between
// equal candidates (BFS neighbor expansion, first-match link lookup), the
// tie is broken by link declaration order, which makes results
// reproducible for a given graph.
package surgery
