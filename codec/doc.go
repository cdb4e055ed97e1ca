// Package codec implements the persistence formats of binarized layers:
// newline separated text tokens, the 8 byte per weight binary format of
// convolution weights, and a packed whole network snapshot.
package codec
