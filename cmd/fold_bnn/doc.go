// Package main provides a program folding learned batch normalization
// parameters into the thresholds of a binarynet layer. It reads the text
// weights of the layer and a YAML list of per neuron parameters
// (mean, gamma, invstd, beta) and writes the folded text weights, or a
// snapshot with -snapshot.
package main
