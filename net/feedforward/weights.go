package feedforward

import (
	"bufio"
	"compress/lzw"
	"io"
	"os"

	"github.com/neurlang/bnn/codec"
	"github.com/pkg/errors"
)

// WriteWeights writes the text weights of every layer, in order, to one stream.
func (f FeedforwardNetwork) WriteWeights(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, l := range f.layers {
		if err := l.Save(bw); err != nil {
			return errors.Wrapf(err, "layer %d", i)
		}
	}
	return bw.Flush()
}

// ReadWeights reads the text weights of every layer, in order, from one stream.
func (f *FeedforwardNetwork) ReadWeights(r io.Reader) error {
	br := bufio.NewReader(r)
	for i, l := range f.layers {
		if err := l.Load(br); err != nil {
			return errors.Wrapf(err, "layer %d", i)
		}
	}
	return nil
}

// WriteCompressedWeightsToFile writes model weights to a lzw file
func (f FeedforwardNetwork) WriteCompressedWeightsToFile(name string) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	err = f.WriteCompressedWeights(file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}

// WriteCompressedWeights writes model weights to a writer
func (f FeedforwardNetwork) WriteCompressedWeights(w io.Writer) error {
	lw := lzw.NewWriter(w, lzw.LSB, 8)
	if err := f.WriteWeights(lw); err != nil {
		lw.Close()
		return err
	}
	return lw.Close()
}

// ReadCompressedWeightsFromFile reads model weights from a lzw file
func (f *FeedforwardNetwork) ReadCompressedWeightsFromFile(name string) error {
	file, err := codec.OpenFile(name)
	if err != nil {
		return err
	}
	defer file.Close()
	return f.ReadCompressedWeights(file)
}

// ReadCompressedWeights reads model weights from a reader
func (f *FeedforwardNetwork) ReadCompressedWeights(r io.Reader) error {
	lr := lzw.NewReader(r, lzw.LSB, 8)
	if err := f.ReadWeights(lr); err != nil {
		lr.Close()
		return err
	}
	return lr.Close()
}
