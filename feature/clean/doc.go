// Package clean validates normalized records and applies the conservative
// second-pass coercions: the validity gate on company name and position,
// fullwidth parenthesis folding, synonym-table enum resolution, and the
// weaker defaulting policy that leaves unknown values absent or 其他 instead
// of guessing.
package clean
