// Package collect gathers raw postings from heterogeneous sources behind the
// Source interface: scraped listing pages, local import files and generated
// demo data. Sources emit loosely-typed field maps; all interpretation of the
// values happens in the pipeline.
package collect
