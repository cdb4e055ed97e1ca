package main

import (
	"flag"
	"io"
	"os"

	"github.com/neurlang/bnn/layer/binarynet"
	"github.com/neurlang/bnn/manifest"
	"github.com/pkg/errors"
)

func fold(in, out int, weights, batchnorm io.Reader, dst io.Writer, snapshot bool) error {
	bn, err := binarynet.New(in, out)
	if err != nil {
		return err
	}
	if err := bn.Load(weights); err != nil {
		return err
	}
	params, err := manifest.ReadBatchnorm(batchnorm)
	if err != nil {
		return err
	}
	folded := make([]binarynet.BatchnormParams, len(params))
	for i, p := range params {
		folded[i] = binarynet.BatchnormParams(p)
	}
	if err := bn.FoldBatchnorm(folded); err != nil {
		return err
	}
	if snapshot {
		return errors.Wrap(writeSnapshot(dst, bn), "snapshot")
	}
	return bn.Save(dst)
}

func main() {
	inputs := flag.Int("inputs", 0, "layer inputs (fan in)")
	outputs := flag.Int("outputs", 0, "layer outputs (neurons)")
	src := flag.String("weights", "", "source text weights")
	params := flag.String("batchnorm", "", "batch normalization parameters .yaml file")
	dst := flag.String("out", "", "destination file (default stdout)")
	snapshot := flag.Bool("snapshot", false, "write a snapshot instead of text weights")
	flag.Parse()

	if *src == "" || *params == "" {
		println("-weights and -batchnorm are required")
		os.Exit(2)
	}
	weights, err := os.Open(*src)
	if err != nil {
		panic(err.Error())
	}
	defer weights.Close()
	bn, err := os.Open(*params)
	if err != nil {
		panic(err.Error())
	}
	defer bn.Close()

	var w io.Writer = os.Stdout
	if *dst != "" {
		f, err := os.Create(*dst)
		if err != nil {
			panic(err.Error())
		}
		defer f.Close()
		w = f
	}
	if err := fold(*inputs, *outputs, weights, bn, w, *snapshot); err != nil {
		println(err.Error())
		os.Exit(1)
	}
}
