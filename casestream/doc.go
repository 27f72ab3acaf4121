// Package casestream provides sequential, cloneable streams of fixed-width
// numeric cases, the data access layer underneath the statistical procedures.
//
// A Reader is a forward-only cursor. Cloning a reader yields an independent
// cursor at the same position, which is how multi-pass procedures (clustering
// needs two full passes per iteration plus one for classification) re-read
// their input without random access.
//
// A Store is a buffered in-memory case collection whose readers are cheap
// reset cursors. Missing-value lookups over a store are accelerated with
// roaring bitmaps, one per variable and exclusion policy.
//
// Missing values follow the usual survey-data convention: NaN is the
// system-missing value, and each variable may additionally declare discrete
// user-missing codes. ExcludeAny treats both kinds as missing; ExcludeSystem
// treats only NaN as missing.
package casestream
