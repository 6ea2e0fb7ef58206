// Package parsers provides per-format corpus file parsers and the
// extension registry that dispatches to them.
//
// Each parser turns one raw corpus file into titled sections. Structured
// formats split on headings; the calendar parser converts events; flat
// formats yield a single synthetic section.
package parsers
