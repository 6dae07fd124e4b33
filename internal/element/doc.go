// Package element defines the read-only view of parsed markup elements and
// the descriptors derived from them.
//
// An Element is produced by an external parser (see Source) and is never
// mutated by peekmark. A Descriptor is the normalized, per-event view of an
// element used to decide which character ranges to show or hide.
package element
