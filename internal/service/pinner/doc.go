// Package pinner implements the release pinning pipeline.
//
// Given one release tag it resolves the version and source commit from the
// release host, fetches the checksum file of every published platform build,
// and writes the aggregated pinning manifest as indented JSON. The pipeline
// is strictly linear: any failure aborts the run before the manifest is
// written, so a previous manifest is never half-overwritten by a broken run.
package pinner
