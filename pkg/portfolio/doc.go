// Package portfolio defines the data model shared by the collectors, the
// scoring engine and the insight rules.
//
// Input records ([Profile], [Repository], [DeepMetadata], [Contributions],
// [PinnedRepo]) are produced by the upstream collectors. Output records
// ([Analysis] and its parts) are produced once per run and are read-only
// afterwards; cached analyses are shared between callers.
//
// JSON field names are camelCase so the payload stays compatible with the
// existing browser renderer.
package portfolio
