// Package dedup provides content-addressed duplicate suppression for
// postings, backed by a persistent cache table keyed by an MD5 digest of the
// dedup key. Entries live until age-based cleanup removes them; there is no
// size-based eviction.
package dedup
