/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	fsais "github.com/dominikkempa/fsais-sub000"
	"github.com/dominikkempa/fsais-sub000/internal/packedint"
	"github.com/dominikkempa/fsais-sub000/pkg/sais"
	"github.com/dominikkempa/fsais-sub000/pkg/stream"
)

const (
	_APP_HEADER     = "sa_tool 1.0 -- external-memory induced-sorting suffix array construction"
	_ARG_INPUT      = "--input="
	_ARG_OUTPUT     = "--output="
	_ARG_MEM        = "--mem="
	_ARG_RADIX      = "--radix="
	_ARG_TMP        = "--tmp="
	_ARG_VERBOSE    = "--verbose="
	_ARG_FORCE      = "--force"
)

var (
	mutex sync.Mutex
	log   = Printer{os: bufio.NewWriter(os.Stdout)}
)

// Printer is a buffered, mutex-guarded println, the same shape as the
// teacher's app.Printer used to keep concurrent progress output tidy
// (this driver is single-threaded, but the type is kept for consistency
// with the rest of the ambient stack).
type Printer struct {
	os *bufio.Writer
}

func (p *Printer) Println(msg string, enabled bool) {
	if !enabled {
		return
	}

	mutex.Lock()

	if w, _ := p.os.Write([]byte(msg + "\n")); w > 0 {
		_ = p.os.Flush()
	}

	mutex.Unlock()
}

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	cfg, status := processCommandLine(args)

	if status != 0 {
		if status < 0 {
			return 0
		}

		return status
	}

	if cfg == nil {
		return 0
	}

	return build(cfg)
}

// config holds every option parsed off the command line, the same role
// the teacher's argsMap plays for BlockCompressor/BlockDecompressor,
// made a concrete struct here since this driver has no compress/decompress
// mode split to justify a map[string]any bag.
type config struct {
	inputName  string
	outputName string
	ramBudget  int64
	radixLog   uint
	tmpDir     string
	verbosity  int
	overwrite  bool
}

func processCommandLine(args []string) (*config, int) {
	cfg := &config{
		ramBudget: 256 << 20,
		radixLog:  8,
		verbosity: 1,
	}

	if len(args) == 1 {
		printHelp()
		return nil, 0
	}

	for i := 1; i < len(args); i++ {
		arg := strings.TrimSpace(args[i])

		switch {
		case arg == "--help" || arg == "-h":
			printHelp()
			return nil, 0

		case arg == _ARG_FORCE || arg == "-f":
			cfg.overwrite = true

		case strings.HasPrefix(arg, _ARG_INPUT) || arg == "-i":
			v, next, ok := valueOf(arg, _ARG_INPUT, args, i)

			if !ok {
				fmt.Println("Warning: ignoring -i/--input with no value")
				continue
			}

			cfg.inputName = v
			i = next

		case strings.HasPrefix(arg, _ARG_OUTPUT) || arg == "-o":
			v, next, ok := valueOf(arg, _ARG_OUTPUT, args, i)

			if !ok {
				fmt.Println("Warning: ignoring -o/--output with no value")
				continue
			}

			cfg.outputName = v
			i = next

		case strings.HasPrefix(arg, _ARG_MEM) || arg == "-m":
			v, next, ok := valueOf(arg, _ARG_MEM, args, i)

			if !ok {
				fmt.Println("Warning: ignoring -m/--mem with no value")
				continue
			}

			bytes, err := parseHumanSize(v)

			if err != nil {
				fmt.Printf("Invalid memory budget provided on command line: %s (%v)\n", v, err)
				return nil, fsais.ErrInvalidParam
			}

			cfg.ramBudget = bytes
			i = next

		case strings.HasPrefix(arg, _ARG_RADIX) || arg == "-r":
			v, next, ok := valueOf(arg, _ARG_RADIX, args, i)

			if !ok {
				fmt.Println("Warning: ignoring -r/--radix with no value")
				continue
			}

			n, err := strconv.Atoi(v)

			if err != nil || n < 1 || n > 32 {
				fmt.Printf("Invalid radix digit width provided on command line: %s\n", v)
				return nil, fsais.ErrInvalidParam
			}

			cfg.radixLog = uint(n)
			i = next

		case strings.HasPrefix(arg, _ARG_TMP) || arg == "-t":
			v, next, ok := valueOf(arg, _ARG_TMP, args, i)

			if !ok {
				fmt.Println("Warning: ignoring -t/--tmp with no value")
				continue
			}

			cfg.tmpDir = v
			i = next

		case strings.HasPrefix(arg, _ARG_VERBOSE) || arg == "-v":
			v, next, ok := valueOf(arg, _ARG_VERBOSE, args, i)

			if !ok {
				fmt.Println("Warning: ignoring -v/--verbose with no value")
				continue
			}

			n, err := strconv.Atoi(v)

			if err != nil || n < 0 || n > 5 {
				fmt.Printf("Invalid verbosity level provided on command line: %s\n", v)
				return nil, fsais.ErrInvalidParam
			}

			cfg.verbosity = n
			i = next

		default:
			fmt.Printf("Warning: ignoring unknown option [%s]\n", arg)
		}
	}

	if cfg.verbosity >= 1 {
		log.Println("\n"+_APP_HEADER+"\n", true)
	}

	if len(cfg.inputName) == 0 {
		fmt.Println("Missing input file name: try --help or -h")
		return nil, fsais.ErrMissingParam
	}

	if len(cfg.outputName) == 0 {
		cfg.outputName = cfg.inputName + ".sa"
	}

	return cfg, 0
}

// valueOf extracts an option's value either from the "--opt=value" form
// (in which case the next index to resume scanning at is i itself) or
// from a following bare argument ("-o value", next index i+1).
func valueOf(arg, prefix string, args []string, i int) (string, int, bool) {
	if strings.HasPrefix(arg, prefix) {
		return strings.TrimSpace(strings.TrimPrefix(arg, prefix)), i, true
	}

	if i+1 >= len(args) {
		return "", i, false
	}

	return strings.TrimSpace(args[i+1]), i + 1, true
}

// parseHumanSize parses a byte count with an optional decimal (k/M/G/T,
// factor 1000) or binary (ki/Mi/Gi/Ti, factor 1024) suffix, grounded on
// the K/M/G block-size suffix parser in app/BlockCompressor.go, extended
// with the binary-prefix forms spec.md §6 requires for the memory budget.
func parseHumanSize(s string) (int64, error) {
	if len(s) == 0 {
		return 0, fmt.Errorf("empty value")
	}

	mult := int64(1)
	numeric := s

	suffixes := []struct {
		suffix string
		mult   int64
	}{
		{"Ti", 1 << 40}, {"Gi", 1 << 30}, {"Mi", 1 << 20}, {"Ki", 1 << 10}, {"ki", 1 << 10},
		{"T", 1_000_000_000_000}, {"G", 1_000_000_000}, {"M", 1_000_000}, {"K", 1_000}, {"k", 1_000},
	}

	for _, suf := range suffixes {
		if strings.HasSuffix(numeric, suf.suffix) {
			mult = suf.mult
			numeric = strings.TrimSuffix(numeric, suf.suffix)
			break
		}
	}

	n, err := strconv.ParseFloat(numeric, 64)

	if err != nil {
		return 0, err
	}

	if n < 0 {
		return 0, fmt.Errorf("negative size")
	}

	return int64(n * float64(mult)), nil
}

func printHelp() {
	log.Println("", true)
	log.Println(_APP_HEADER, true)
	log.Println("", true)
	log.Println("   -h, --help", true)
	log.Println("        Display this message\n", true)
	log.Println("   -i, --input=<path>", true)
	log.Println("        Mandatory path of the text file to index\n", true)
	log.Println("   -o, --output=<path>", true)
	log.Println("        Path of the suffix array file (defaults to <input>.sa)\n", true)
	log.Println("   -m, --mem=<size>", true)
	log.Println("        RAM budget for one recursion level (k/M/G/T or ki/Mi/Gi/Ti, default 256Mi)\n", true)
	log.Println("   -r, --radix=<bits>", true)
	log.Println("        Radix-heap digit width in bits (default 8)\n", true)
	log.Println("   -t, --tmp=<dir>", true)
	log.Println("        Directory for recursion spill files (default '.')\n", true)
	log.Println("   -v, --verbose=<level>", true)
	log.Println("        Set the verbosity level [0..5]\n", true)
	log.Println("   -f, --force", true)
	log.Println("        Overwrite the output file if it already exists\n", true)
	log.Println("EG. sais -i text.txt -o text.sa -m 512Mi -v 2", true)
}

// confirmOverwrite prompts the user on stdin, mirroring the teacher's
// force/overwrite-confirmation path in BlockCompressor.go.
func confirmOverwrite(path string) bool {
	fmt.Printf("File '%s' already exists, overwrite (y/n)? ", path)
	scanner := bufio.NewScanner(os.Stdin)

	if !scanner.Scan() {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func build(cfg *config) int {
	if _, err := os.Stat(cfg.outputName); err == nil {
		if !cfg.overwrite && !confirmOverwrite(cfg.outputName) {
			fmt.Printf("File '%s' exists and the 'force' command line option has not been provided\n", cfg.outputName)
			return fsais.ErrOverwriteFile
		}
	}

	text, err := os.ReadFile(cfg.inputName)

	if err != nil {
		fmt.Printf("Cannot open input file '%s' for reading: %v\n", cfg.inputName, err)
		return fsais.ErrOpenFile
	}

	if len(text) == 0 {
		fmt.Println("Input file is empty")
		return fsais.ErrInvalidParam
	}

	symbols := make([]sais.Symbol, len(text))

	for i, b := range text {
		symbols[i] = sais.Symbol(b)
	}

	opts := sais.DefaultOptions()
	opts.RAMBudget = cfg.ramBudget
	opts.RadixLog = cfg.radixLog
	opts.TempDir = cfg.tmpDir

	if cfg.verbosity >= 2 {
		opts.Listener = &progressListener{verbosity: cfg.verbosity}
	}

	start := time.Now()

	sa, err := sais.ComputeSuffixArray(symbols, 256, opts)

	if err != nil {
		fmt.Printf("Suffix array construction failed: %v\n", err)
		return fsais.ErrUnknown
	}

	elapsed := time.Since(start)

	if err := writeSuffixArray(cfg.outputName, sa, cfg.ramBudget); err != nil {
		fmt.Printf("Cannot write output file '%s': %v\n", cfg.outputName, err)
		return fsais.ErrWriteFile
	}

	if cfg.verbosity >= 1 {
		log.Println(fmt.Sprintf("Indexed %d symbols in %v", len(symbols), elapsed), true)
	}

	return 0
}

// writeSuffixArray packs the suffix array at the narrowest width that
// can hold every offset in [0, n], the same §6 packed-width convention
// the rest of the pipeline's on-disk streams follow, and rolls the
// output across "<path>.part.N" files via stream.MultiPartWriter once a
// single part would exceed partBudget bytes -- the same chunked-file
// shape io.CompressedStream gives its block stream, sized here to the
// run's own RAM budget so a single giant output file never has to be
// held or rewritten whole to relocate it.
func writeSuffixArray(path string, sa []sais.Offset, partBudget int64) error {
	codec := stream.Uint64Codec{Width: packedint.WidthForBound(uint64(len(sa)) + 1)}

	if partBudget <= 0 {
		partBudget = 256 << 20
	}

	mpw, err := stream.NewMultiPartWriter[sais.Offset](path, partBudget, codec, 4096, 3)

	if err != nil {
		return &osPathError{path: path, err: err}
	}

	for _, v := range sa {
		if err := mpw.Push(v); err != nil {
			return &osPathError{path: path, err: err}
		}
	}

	if err := mpw.Close(); err != nil {
		return &osPathError{path: path, err: err}
	}

	if mpw.GetPartsCount() == 1 {
		return os.Rename(mpw.PartPath(0), path)
	}

	return writePartManifest(path, mpw.GetPartsCount())
}

// writePartManifest records how many "<path>.part.N" files make up the
// suffix array when it did not fit in one part, the same role the
// teacher's block-index header plays for locating a compressed
// stream's blocks.
func writePartManifest(path string, parts int) error {
	f, err := os.Create(path)

	if err != nil {
		return &osPathError{path: path, err: err}
	}

	defer f.Close()

	_, err = fmt.Fprintf(f, "sa_tool multi-part suffix array: %d parts\n", parts)
	return err
}

type osPathError struct {
	path string
	err  error
}

func (e *osPathError) Error() string { return fmt.Sprintf("create %s: %v", e.path, e.err) }
func (e *osPathError) Unwrap() error { return e.err }

// progressListener renders pipeline Events as one-line progress
// messages, the CLI's registration point for the Listener interface
// spec.md §6 requires the driver to expose.
type progressListener struct {
	verbosity int
}

func (p *progressListener) ProcessEvent(evt *fsais.Event) {
	log.Println(evt.String(), p.verbosity >= 2)
}
