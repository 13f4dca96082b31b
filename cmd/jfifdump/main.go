package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/leijurv/jfif_go/jfif"
)

type dumpOptions struct {
	headersOnly bool
	huffman     bool
	blocks      int
	dequantize  bool
	dumpDir     string
	verify      bool
	verbose     bool
}

type fileResult struct {
	filename string
	output   []byte
	err      error
}

func main() {
	dirPath := flag.String("dir", "", "Directory containing .jpg files (in addition to file arguments)")
	workers := flag.Int("workers", 4, "Number of parallel workers")
	verbose := flag.Bool("verbose", false, "Verbose output")
	headersOnly := flag.Bool("headers", false, "Only print the segment table, do not decode the scan")
	huffman := flag.Bool("huffman", false, "Print the code assignments of every Huffman table")
	blocks := flag.Int("blocks", 0, "Print the first N blocks of every component in raster order")
	dequantize := flag.Bool("dequantize", false, "Multiply printed blocks by their quantization table")
	dumpDir := flag.String("dump", "", "Write decoded coefficients of each file to this directory")
	verify := flag.Bool("verify", false, "Re-encode the decoded coefficients and compare with the original scan data")
	flag.Parse()
	defer glog.Flush()

	files := flag.Args()
	if *dirPath != "" {
		entries, err := os.ReadDir(*dirPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading directory: %v\n", err)
			os.Exit(1)
		}
		for _, e := range entries {
			name := strings.ToLower(e.Name())
			if !e.IsDir() && (strings.HasSuffix(name, ".jpg") || strings.HasSuffix(name, ".jpeg")) {
				files = append(files, filepath.Join(*dirPath, e.Name()))
			}
		}
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] file.jpg...\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	opts := dumpOptions{
		headersOnly: *headersOnly,
		huffman:     *huffman,
		blocks:      *blocks,
		dequantize:  *dequantize,
		dumpDir:     *dumpDir,
		verify:      *verify,
		verbose:     *verbose,
	}
	if opts.dumpDir != "" {
		if err := os.MkdirAll(opts.dumpDir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating dump directory: %v\n", err)
			os.Exit(1)
		}
	}

	if *workers < 1 {
		*workers = 1
	}

	var passed, failed int64
	var mu sync.Mutex
	var failedFiles []string

	jobs := make(chan string, len(files))
	results := make(chan fileResult, len(files))
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for filename := range jobs {
				result := dumpFile(filename, opts)
				if result.err != nil {
					atomic.AddInt64(&failed, 1)
					glog.Errorf("%s: %v", filename, result.err)
					mu.Lock()
					failedFiles = append(failedFiles, fmt.Sprintf("%s: %v", filename, result.err))
					mu.Unlock()
				} else {
					atomic.AddInt64(&passed, 1)
				}
				results <- result
			}
		}()
	}

	for _, f := range files {
		jobs <- f
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	// print whole reports so that output of parallel workers does not interleave
	for result := range results {
		os.Stdout.Write(result.output)
	}

	if len(files) > 1 || failed > 0 {
		fmt.Printf("\nResults: %d passed, %d failed\n", passed, failed)
	}
	if len(failedFiles) > 0 && len(failedFiles) <= 20 {
		fmt.Println("\nFailed files:")
		for _, f := range failedFiles {
			fmt.Println("  " + f)
		}
	}
	if failed > 0 {
		glog.Flush()
		os.Exit(1)
	}
}

func dumpFile(filename string, opts dumpOptions) (result fileResult) {
	result.filename = filename
	var out bytes.Buffer
	defer func() { result.output = out.Bytes() }()

	data, err := os.ReadFile(filename)
	if err != nil {
		result.err = fmt.Errorf("read error: %w", err)
		return result
	}

	container, err := jfif.ParseWithOptions(data, jfif.Options{SkipEntropyDecode: opts.headersOnly})
	if err != nil {
		fmt.Fprintf(&out, "%s: %v\n", filename, err)
		result.err = err
		return result
	}

	fmt.Fprintf(&out, "%s (%d bytes)\n", filename, container.Length())
	printSegments(&out, container)

	if opts.huffman {
		printHuffmanTables(&out, container.HuffmanTables())
	}

	if opts.headersOnly || container.Scan() == nil {
		return result
	}

	for _, img := range container.Components() {
		fmt.Fprintf(&out, "component %d: %dx%d blocks\n", img.ComponentID, img.BlockWidth(), img.BlockHeight())
		if opts.blocks > 0 {
			var qt *jfif.QuantizationTable
			if opts.dequantize {
				if fc, _ := container.Frame().Component(img.ComponentID); fc != nil && fc.QuantizationTable < jfif.MaxQuantizationTables {
					qt = container.QuantizationTables()[fc.QuantizationTable]
				}
			}
			printBlocks(&out, img, opts.blocks, qt)
		}
	}

	if opts.verify {
		reencoded, err := jfif.EncodeScan(container.Components(), container.Frame(), container.Scan(), container.HuffmanTables())
		if err != nil {
			result.err = fmt.Errorf("re-encode error: %w", err)
			return result
		}
		if original := container.EntropyBytes(); !bytes.Equal(reencoded, original) {
			result.err = fmt.Errorf("roundtrip mismatch: re-encoded %d bytes, original %d bytes", len(reencoded), len(original))
			return result
		}
		if opts.verbose {
			fmt.Fprintf(&out, "ROUNDTRIP PASS: %s\n", filename)
		}
	}

	if opts.dumpDir != "" {
		base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
		dumpPath := filepath.Join(opts.dumpDir, base+".jfcd")
		if err := writeDump(dumpPath, container.Components()); err != nil {
			result.err = fmt.Errorf("dump error: %w", err)
			return result
		}
		if opts.verbose {
			fmt.Fprintf(&out, "wrote %s\n", dumpPath)
		}
	}

	return result
}

func writeDump(path string, images []*jfif.BlockBasedImage) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := jfif.WriteCoefficientDump(f, images); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSegments(w io.Writer, c *jfif.Container) {
	fmt.Fprintf(w, "%8s %8s  %-6s  %-5s  %s\n", "offset", "length", "code", "name", "content")
	for _, m := range c.Markers() {
		fmt.Fprintf(w, "%8d %8d  %s  %-5s  %s\n", m.Offset, m.Length, m.HexCode(), m.Descriptor.ShortName, describe(m.Content))
		if m.Code == jfif.MarkerSOS {
			e := c.Entropy()
			fmt.Fprintf(w, "%8d %8d  %-6s  %-5s  entropy-coded data\n", e.Offset, e.Length, "", "")
		}
	}
}

func describe(content jfif.SegmentContent) string {
	switch c := content.(type) {
	case *jfif.APP0:
		s := fmt.Sprintf("%s %s, density %dx%d %s", c.Identifier, c.Version, c.DensityX, c.DensityY, c.DensityUnit)
		if len(c.Thumbnail.Data) > 0 {
			s += fmt.Sprintf(", %s thumbnail %dx%d", c.Thumbnail.Format, c.Thumbnail.Width, c.Thumbnail.Height)
		}
		return s
	case jfif.Comment:
		return fmt.Sprintf("%q", string(c))
	case *jfif.QuantizationTable:
		return fmt.Sprintf("table %d, %d-bit entries", c.Destination, c.Precision())
	case *jfif.FrameHeader:
		var parts []string
		for _, fc := range c.Components {
			parts = append(parts, fmt.Sprintf("%d:%dx%d q%d", fc.ID, fc.HorizontalSampling, fc.VerticalSampling, fc.QuantizationTable))
		}
		return fmt.Sprintf("%s [%s]", c, strings.Join(parts, " "))
	case jfif.HuffmanTables:
		var parts []string
		for _, t := range c {
			parts = append(parts, fmt.Sprintf("%s%d (%d symbols)", t.Class(), t.ID%jfif.ACTableOffset, len(t.Symbols)))
		}
		return strings.Join(parts, ", ")
	case *jfif.ScanHeader:
		var parts []string
		for _, sc := range c.Components {
			parts = append(parts, fmt.Sprintf("%d:DC%d/AC%d", sc.ID, sc.DCTable, sc.ACTable-jfif.ACTableOffset))
		}
		s := strings.Join(parts, " ")
		if !c.IsBaseline() {
			s += fmt.Sprintf(" Ss=%d Se=%d Ah=%d Al=%d", c.SpectralStart, c.SpectralEnd, c.ApproxHigh, c.ApproxLow)
		}
		return s
	case jfif.RestartInterval:
		return c.String()
	default:
		return ""
	}
}

func printHuffmanTables(w io.Writer, tables *jfif.HuffmanTableSet) {
	for _, t := range tables {
		if t == nil {
			continue
		}
		fmt.Fprintf(w, "%s table %d:\n", t.Class(), t.ID%jfif.ACTableOffset)
		for _, code := range t.Codes() {
			if t.IsAC() {
				pair := jfif.RunLengthPair(code.Symbol)
				fmt.Fprintf(w, "  %2d %-16s  run %2d size %2d\n", code.Length, code, pair.Run(), pair.Size())
			} else {
				fmt.Fprintf(w, "  %2d %-16s  size %2d\n", code.Length, code, code.Symbol)
			}
		}
	}
}

// printBlocks prints blocks in natural 8x8 order, dequantized when qt is set
func printBlocks(w io.Writer, img *jfif.BlockBasedImage, limit int, qt *jfif.QuantizationTable) {
	blocks := img.Blocks()
	if limit > len(blocks) {
		limit = len(blocks)
	}
	for i := 0; i < limit; i++ {
		var raster [jfif.BlockSize]int64
		if qt != nil {
			dq := qt.Dequantize(&blocks[i])
			raster = dq.Raster()
		} else {
			for k, v := range blocks[i].Raster() {
				raster[k] = int64(v)
			}
		}
		fmt.Fprintf(w, "  block %d (%d,%d):\n", i, i%img.BlockWidth(), i/img.BlockWidth())
		for row := 0; row < 8; row++ {
			fmt.Fprint(w, "   ")
			for col := 0; col < 8; col++ {
				fmt.Fprintf(w, " %5d", raster[row*8+col])
			}
			fmt.Fprintln(w)
		}
	}
}
