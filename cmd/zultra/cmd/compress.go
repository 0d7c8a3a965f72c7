package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pierrec/xxHash/xxHash32"

	"github.com/gozultra/zultra"
	"github.com/spf13/cobra"
)

var (
	compressDictFile  string
	compressBlockSize int
)

var compressCmd = &cobra.Command{
	Use:   "compress <input> <output>",
	Short: "Compress a file",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompress,
}

func init() {
	rootCmd.AddCommand(compressCmd)
	compressCmd.Flags().StringVar(&compressDictFile, "dict", "", "zlib preset dictionary file")
	compressCmd.Flags().IntVar(&compressBlockSize, "block-size", 0, "max block size in bytes (0 = default)")
}

func runCompress(cmd *cobra.Command, args []string) error {
	inPath, outPath := args[0], args[1]

	framing, err := parseFraming(FramingName)
	if err != nil {
		return err
	}

	opts := zultra.Options{Framing: framing, MaxBlockSize: compressBlockSize}
	if compressDictFile != "" {
		dict, err := os.ReadFile(compressDictFile)
		if err != nil {
			return fmt.Errorf("%w: reading dictionary %s: %v", zultra.ErrDictionary, compressDictFile, err)
		}
		opts.Dictionary = dict
	}

	in, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", zultra.ErrSource, inPath, err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", zultra.ErrDestination, outPath, err)
	}
	defer out.Close()

	start := time.Now()
	w, err := zultra.NewWriter(out, opts)
	if err != nil {
		return err
	}

	blockNum := 0
	if Verbose {
		w.BlockHook = func(inBytes int, compressed []byte) {
			blockNum++
			h := xxHash32.New(0)
			h.Write(compressed)
			log.Printf("block %d: %d bytes in, %d bytes out, xxhash=%08x",
				blockNum, inBytes, len(compressed), h.Sum32())
		}
	}

	if _, err := w.Write(in); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	if Verbose {
		fi, statErr := out.Stat()
		var outSize int64
		if statErr == nil {
			outSize = fi.Size()
		}
		log.Printf("%s: %d bytes in, %d bytes out, ratio %.3f, %s",
			inPath, len(in), outSize, ratioOf(len(in), int(outSize)), elapsed)
	}

	return nil
}

func ratioOf(inSize, outSize int) float64 {
	if inSize == 0 {
		return 0
	}
	return float64(outSize) / float64(inSize)
}
