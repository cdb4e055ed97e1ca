package main

import (
	"io"

	"github.com/neurlang/bnn/layer/binarynet"
	"github.com/neurlang/bnn/net/feedforward"
)

func writeSnapshot(w io.Writer, bn *binarynet.BinaryNet) error {
	var net feedforward.FeedforwardNetwork
	if err := net.NewLayer(bn); err != nil {
		return err
	}
	return net.WriteSnapshot(w)
}
