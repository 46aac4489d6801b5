// Package sentiment implements the lexicon-based entry classifier.
//
// Classify maps free text to a bounded score in [-1, 1] and a five-way label with a fixed emoji.
// Bands holds the score partition used for labels and chart colors. Everything here is pure and
// safe for concurrent use.
package sentiment
