// Package cuda offloads binarynet layers to a CUDA device. It is only
// built with the cuda build tag, which requires the CUDA driver and
// gorgonia.org/cu.
package cuda
