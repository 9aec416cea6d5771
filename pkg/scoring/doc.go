// Package scoring turns collected portfolio records into metrics, the seven
// dimension subscores, the weighted overall score, a letter grade and the
// importance-ranked repository list.
//
// Every function here is pure: the same records and the same reference time
// always produce the same result. Nothing performs I/O, so callers pass the
// clock explicitly.
//
//	res := scoring.Score(scoring.Input{
//	    Profile:       profile,
//	    Repos:         scorable,
//	    Contributions: contributions,
//	    Enrichment:    stats,
//	}, time.Now())
//	fmt.Println(res.Overall, res.Grade)
//
// # Weights
//
// [Weights] sum to 100. The overall score is the rounded weighted mean of the
// subscores, clamped to [0,100].
package scoring
