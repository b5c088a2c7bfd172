// Package pipeline implements the ingestion-classification-routing pass over
// the tracked artist roster.
//
// [Engine] orchestrates a run: for each roster artist it pages through recent
// releases, keeps tracks inside the trailing release window, classifies each
// track by its primary artist's genre tags, routes the genre to a curated
// playlist (or the configured fallbacks), and appends tracks through the
// capacity-aware [Writer].
//
// A run is gated by [Gate] to the configured weekly anchor day and guarded by
// a run-in-progress lock so two runs never overlap. Only credential failures
// abort a run; catalog errors are absorbed at the artist boundary and write
// failures at the chunk boundary, both reflected in the [RunSummary] counters.
//
// Operations emit progress updates via channels for non-blocking status
// reporting to the CLI layer.
package pipeline
