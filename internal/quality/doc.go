// Package quality implements the data quality checks run over a
// line-list snapshot before analysis.
//
// The package is organized around small, independent evaluators:
//
// 1. Similarity: Jaro-Winkler text matching plus typed comparisons
// 2. Duplicates: greedy single-link clustering over configured fields
// 3. Rules: date-order, future-date, numeric-range and missing-value checks
// 4. Aggregation: category grouping and severity counts for review UIs
//
// Engine.RunChecks orchestrates the evaluators over one immutable
// snapshot of records and returns a single ordered issue list. The
// engine is pure: it keeps no state between runs, never mutates its
// inputs, and degrades malformed data to "no assertion" rather than
// returning errors (see the individual check functions).
//
// Basic usage:
//
//	engine := quality.NewEngine(logger)
//	issues := engine.RunChecks(ctx, records, columns, cfg)
//	summary := quality.Summarize(issues)
package quality
