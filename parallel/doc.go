// Package parallel contains the parallel-for abstractions used by the dense binarized kernels.
package parallel
