package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/neurlang/bnn/layer/binarynet"
	"github.com/neurlang/bnn/manifest"
	"github.com/neurlang/bnn/net/feedforward"
	"github.com/pkg/errors"
)

// offloaders holds the offload backends compiled into this binary that the
// manifest cannot construct by itself.
var offloaders = map[string]func() (binarynet.Offloader, error){}

func parseLine(line string, size int) ([]float64, error) {
	fields := strings.Fields(line)
	if len(fields) != size {
		return nil, errors.Errorf("got %d values, want %d", len(fields), size)
	}
	in := make([]float64, size)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		in[i] = v
	}
	return in, nil
}

func run(net *feedforward.FeedforwardNetwork, r io.Reader, w io.Writer) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		in, err := parseLine(line, net.InSize())
		if err != nil {
			return errors.Wrapf(err, "line %d", n)
		}
		out, err := net.Forward(in, 0)
		if err != nil {
			return errors.Wrapf(err, "line %d", n)
		}
		for i, v := range out {
			if i > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		bw.WriteByte('\n')
	}
	return sc.Err()
}

func main() {
	model := flag.String("manifest", "", "model manifest .yaml file")
	input := flag.String("input", "", "input file, one sample per line (default stdin)")
	dot := flag.Bool("dot", false, "print the network as a graphviz digraph and exit")
	verbose := flag.Bool("verbose", false, "log every layer output")
	flag.Bool("pgo", false, "enable pgo")
	flag.Parse()

	if *model == "" {
		println("-manifest is required")
		os.Exit(2)
	}
	m, err := manifest.ParseFile(*model)
	if err != nil {
		panic(err.Error())
	}

	var opts []manifest.BuildOption
	if *verbose {
		opts = append(opts, manifest.WithLogger(log.New(os.Stderr, "", log.Lmicroseconds)))
	}
	if newOffloader, ok := offloaders[m.Offload]; ok {
		off, err := newOffloader()
		if err != nil {
			panic(err.Error())
		}
		opts = append(opts, manifest.WithOffloader(off))
	}
	net, err := m.Build(opts...)
	if err != nil {
		panic(err.Error())
	}

	if *dot {
		fmt.Print(net.ToDot())
		return
	}

	var r io.Reader = os.Stdin
	if *input != "" {
		f, err := os.Open(*input)
		if err != nil {
			panic(err.Error())
		}
		defer f.Close()
		r = f
	}
	if err := run(net, r, os.Stdout); err != nil {
		println(err.Error())
		os.Exit(1)
	}
}
