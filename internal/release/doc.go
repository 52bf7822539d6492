// Package release holds the domain model of the pinning manifest:
// the fixed platform list published per n3h release, the artifact record
// pinned per platform, and parsing of the upstream checksum files.
package release
