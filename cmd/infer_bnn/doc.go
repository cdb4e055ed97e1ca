// Package main provides a program for running inference with a binarized
// network described by a YAML manifest. Each input line holds the
// whitespace separated values of one sample, each output line the values
// produced by the last layer. Use -dot to print the network as a graphviz
// digraph instead.
package main
