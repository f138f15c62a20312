// Package data turns tabular records into the two-level frequency tables a
// treemap is built from.
//
// A [Table] holds, for every distinct value of a category column, the number
// of records carrying it and a breakdown of those records by a sub-category
// column. Iteration order is stable and controlled by [Order]; the default
// ([OrderCount]) lists the most frequent values first, ties in order of first
// appearance.
//
// Records are read from CSV ([ReadCSV]) or Excel workbooks ([ReadXLSX]); the
// first row must be a header. [Load] picks the reader from the file
// extension.
//
// Missing columns produce MALFORMED_DATA errors from
// [github.com/matzehuels/squaremap/pkg/errors].
package data
