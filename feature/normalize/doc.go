// Package normalize converts loosely-typed field maps from collectors into
// the canonical record form. Normalization is aggressive: every output field
// is populated, with unparseable or missing values resolved to defaults.
package normalize
