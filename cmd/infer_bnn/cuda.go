//go:build cuda

package main

import (
	"github.com/neurlang/bnn/layer/binarynet"
	"github.com/neurlang/bnn/offload/cuda"
)

func init() {
	offloaders["cuda"] = func() (binarynet.Offloader, error) {
		return cuda.New(0, nil)
	}
}
