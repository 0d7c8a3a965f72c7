package cmd

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/andybalholm/brotli"
	kflate "github.com/klauspost/compress/flate"
	"github.com/golang/snappy"
	"github.com/pierrec/lz4/v4"

	"github.com/gozultra/zultra"
	"github.com/spf13/cobra"
)

var benchCmd = &cobra.Command{
	Use:   "bench <input>",
	Short: "Compress a file in memory and report size/time against other codecs",
	Args:  cobra.ExactArgs(1),
	RunE:  runBench,
}

func init() {
	rootCmd.AddCommand(benchCmd)
}

type benchResult struct {
	name     string
	size     int
	duration time.Duration
}

func runBench(cmd *cobra.Command, args []string) error {
	inPath := args[0]
	in, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", zultra.ErrSource, inPath, err)
	}

	framing, err := parseFraming(FramingName)
	if err != nil {
		return err
	}

	results := []benchResult{
		benchZultra(in, framing),
		benchKlauspostFlate(in),
		benchSnappy(in),
		benchLZ4(in),
		benchBrotli(in),
	}

	fmt.Printf("input: %s (%d bytes)\n", inPath, len(in))
	fmt.Printf("%-16s %12s %10s %12s\n", "codec", "size", "ratio", "time")
	for _, r := range results {
		fmt.Printf("%-16s %12d %9.1f%% %12s\n", r.name, r.size, 100*ratioOf(len(in), r.size), r.duration)
	}
	return nil
}

func benchZultra(in []byte, framing zultra.Framing) benchResult {
	start := time.Now()
	out, err := zultra.CompressBlock(nil, in, zultra.Options{Framing: framing})
	d := time.Since(start)
	if err != nil {
		return benchResult{name: "zultra", size: -1, duration: d}
	}
	return benchResult{name: "zultra", size: len(out), duration: d}
}

func benchKlauspostFlate(in []byte) benchResult {
	var buf bytes.Buffer
	start := time.Now()
	w, err := kflate.NewWriter(&buf, kflate.BestCompression)
	if err == nil {
		w.Write(in)
		w.Close()
	}
	d := time.Since(start)
	return benchResult{name: "klauspost/flate", size: buf.Len(), duration: d}
}

func benchSnappy(in []byte) benchResult {
	start := time.Now()
	out := snappy.Encode(nil, in)
	d := time.Since(start)
	return benchResult{name: "snappy", size: len(out), duration: d}
}

func benchLZ4(in []byte) benchResult {
	var buf bytes.Buffer
	start := time.Now()
	w := lz4.NewWriter(&buf)
	w.Write(in)
	w.Close()
	d := time.Since(start)
	return benchResult{name: "lz4", size: buf.Len(), duration: d}
}

func benchBrotli(in []byte) benchResult {
	var buf bytes.Buffer
	start := time.Now()
	w := brotli.NewWriterLevel(&buf, brotli.DefaultCompression)
	w.Write(in)
	w.Close()
	d := time.Since(start)
	return benchResult{name: "brotli", size: buf.Len(), duration: d}
}
