// Package diagram defines the sequence-diagram language: its syntax tree and
// a parser that turns source text into a [Document].
//
// # Language
//
// Source is line oriented. Blank lines and lines starting with # are
// ignored. Every other line is one statement:
//
//	title Ordering a coffee
//	participant C as "Customer"
//	C -> Barista: one flat white
//	Barista --> C: that'll be 4.20
//	note over C, Barista: payment happens here
//	C ->> C: think about life
//
// Signals connect two actors with an arrow. One dash draws a solid line, two
// dashes a dotted line; a single > adds a filled arrow head, >> an open one,
// and no > means no head at all. The character → is accepted as a shorthand
// for ->. Actors are created on first use, or up front with participant,
// which can also give them a display name with as. Names containing
// characters that would otherwise end them (- > : ,) can be quoted.
//
// Notes attach text to one actor (left of, right of, over) or span two
// actors (over A, B).
//
// Message text runs to the end of the line; the two characters \n split it
// over several lines in the drawing.
//
// # Errors
//
// [Parse] stops at the first problem and returns a [*ParseError] carrying a
// 1-based line and column, which editors use to place the message next to
// the offending line.
package diagram
