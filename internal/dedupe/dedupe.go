// Package dedupe provides the shared singleflight group used to run a single
// search for identical concurrent solve requests. Callers key it with the
// canonical request (see converter.SolveRequest.Key).
package dedupe

import "golang.org/x/sync/singleflight"

// SolveGroup deduplicates solve requests keyed by their canonical form.
var SolveGroup singleflight.Group
