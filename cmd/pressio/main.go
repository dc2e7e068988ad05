// pressio compresses files with any registered compressor and reports the
// metrics collected along the way.
//
// Every file is read as a typed buffer, compressed, decompressed into a
// buffer of the same dtype and shape and, for lossless compressors, compared
// with the original. The metrics results are written to stdout as JSON, YAML
// or CBOR.
//
// Several files, or --threads above one, run through the parallel dispatcher
// with the selected compressor as its template.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/arloliu/pressio"
	"github.com/arloliu/pressio/compressor"
	"github.com/arloliu/pressio/data"
	"github.com/arloliu/pressio/internal/config"
	"github.com/arloliu/pressio/options"
	"github.com/arloliu/pressio/parallel"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	compressor string
	metrics    string
	configPath string
	assign     []string
	dtype      string
	dims       string
	threads    uint32
	format     string
	list       bool
	docs       bool
	verbose    bool
	version    bool
}

func newFlagSet(f *flags) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("pressio", pflag.ContinueOnError)
	flagSet.StringVarP(&f.compressor, "compressor", "c", "zstd", "compressor to run")
	flagSet.StringVarP(&f.metrics, "metrics", "m", "time", "metrics collector to attach")
	flagSet.StringVar(&f.configPath, "config", "", "YAML or JSONC file of option key to value")
	flagSet.StringArrayVarP(&f.assign, "option", "O", nil, "set an option, key=value (repeatable)")
	flagSet.StringVar(&f.dtype, "dtype", "byte", "element type of the input files")
	flagSet.StringVar(&f.dims, "dims", "", "comma separated dims of each input, default one-dimensional")
	flagSet.Uint32VarP(&f.threads, "threads", "t", 1, "worker goroutines for the parallel dispatcher")
	flagSet.StringVarP(&f.format, "format", "f", "json", "output format: json, yaml or cbor")
	flagSet.BoolVar(&f.list, "list", false, "list the registered compressors and collectors")
	flagSet.BoolVar(&f.docs, "docs", false, "print the documentation of the configured compressor")
	flagSet.BoolVarP(&f.verbose, "verbose", "v", false, "log debug messages")
	flagSet.BoolVar(&f.version, "version", false, "print the version")
	flagSet.BoolP("help", "h", false, "show help")

	return flagSet
}

func run(args []string) error {
	var f flags
	flagSet := newFlagSet(&f)
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	enc, err := newEncoder(f.format)
	if err != nil {
		return err
	}

	switch {
	case f.version:
		fmt.Println("pressio", pressio.Version)
		return nil
	case f.list:
		return enc.Encode(os.Stdout, map[string]any{
			"compressors": pressio.SupportedCompressors(),
			"metrics":     pressio.SupportedMetrics(),
		})
	}

	files := flagSet.Args()
	logger := newLogger(f.verbose)

	p, err := buildCompressor(f, len(files), logger)
	if err != nil {
		return err
	}
	if err := configure(p, f); err != nil {
		return err
	}

	if f.docs {
		return enc.Encode(os.Stdout, p.Documentation().ToMap())
	}
	if len(files) == 0 {
		return errors.New("no input files, see --help")
	}

	inputs, err := readInputs(files, f.dtype, f.dims)
	if err != nil {
		return err
	}
	results, err := roundTrip(p, f.compressor, inputs, logger)
	if err != nil {
		return err
	}

	return enc.Encode(os.Stdout, results.ToMap())
}

// buildCompressor builds the selected compressor, wrapped in the parallel
// dispatcher for several files or several threads.
func buildCompressor(f flags, files int, logger *slog.Logger) (*compressor.Plugin, error) {
	if f.threads <= 1 && files <= 1 {
		return pressio.NewCompressor(f.compressor,
			compressor.WithLogger(logger),
			compressor.WithMetricsName(f.metrics),
		)
	}

	template, err := pressio.NewCompressor(f.compressor, compressor.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	dispatcher, err := parallel.New(
		parallel.WithLogger(logger),
		parallel.WithTemplate(template),
		parallel.WithThreads(max(f.threads, 1)),
	)
	if err != nil {
		return nil, err
	}

	return compressor.New(dispatcher,
		compressor.WithLogger(logger),
		compressor.WithMetricsName(f.metrics),
	)
}

// configure applies the option file and the -O assignments, the latter
// taking precedence. Values are typed against the compressor's own options.
func configure(p *compressor.Plugin, f flags) error {
	raw := make(map[string]any)
	if f.configPath != "" {
		loaded, err := config.LoadFile(f.configPath)
		if err != nil {
			return err
		}
		for key, value := range loaded {
			raw[key] = value
		}
	}
	for _, assignment := range f.assign {
		key, value, err := config.ParseAssignment(assignment)
		if err != nil {
			return err
		}
		raw[key] = value
	}
	if len(raw) == 0 {
		return nil
	}

	opts, err := options.FromMap(raw, p.Options())
	if err != nil {
		return err
	}
	if err := p.CheckOptions(opts); err != nil {
		return err
	}

	return p.SetOptions(opts)
}

func parseDims(s string) ([]uint64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	dims := make([]uint64, 0, len(parts))
	for _, part := range parts {
		dim, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid dims %q: %w", s, err)
		}
		dims = append(dims, dim)
	}

	return dims, nil
}

func readInputs(files []string, dtypeName, dimsSpec string) ([]*data.Data, error) {
	dtype, err := data.ParseDType(dtypeName)
	if err != nil {
		return nil, err
	}
	dims, err := parseDims(dimsSpec)
	if err != nil {
		return nil, err
	}

	inputs := make([]*data.Data, 0, len(files))
	for _, path := range files {
		payload, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		input, err := data.FromBytes(dtype, payload, dims...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		inputs = append(inputs, input)
	}

	return inputs, nil
}

// roundTrip compresses and decompresses inputs and verifies lossless
// compressors restored them exactly.
func roundTrip(p *compressor.Plugin, name string, inputs []*data.Data, logger *slog.Logger) (*options.Options, error) {
	compressed := make([]*data.Data, len(inputs))
	restored := make([]*data.Data, len(inputs))
	for i, in := range inputs {
		compressed[i] = data.Empty(data.Byte)
		restored[i] = data.Empty(in.DType(), in.Dims()...)
	}

	if err := p.CompressMany(inputs, compressed); err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}
	if err := p.DecompressMany(compressed, restored); err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}

	lossless := options.GetOr(p.Configuration(), options.Scoped(name, "lossless"), false)
	for i, in := range inputs {
		logger.Debug("round trip", "buffer", i, "input", in.Len(), "compressed", compressed[i].Len())
		if lossless && !in.Equal(restored[i]) {
			return nil, fmt.Errorf("buffer %d was not restored exactly", i)
		}
	}

	return p.MetricsResults(), nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `pressio compresses files and reports metrics.

Usage:
  pressio [flags] FILE...

Examples:
  # Compress a float64 array with zstd level 9 and report sizes
  pressio -c zstd -m size -O zstd:level=9 --dtype float64 data.bin

  # Compress several files on four goroutines
  pressio -c lz4 --threads 4 a.bin b.bin c.bin

  # Show the options of a compressor
  pressio -c brotli --docs --format yaml

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
