package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	kflate "github.com/klauspost/compress/flate"
	kgzip "github.com/klauspost/compress/gzip"
	kzlib "github.com/klauspost/compress/zlib"

	"github.com/gozultra/zultra"
	"github.com/spf13/cobra"
)

var verifyDictFile string

var verifyCmd = &cobra.Command{
	Use:   "verify <input>",
	Short: "Compress a file in memory and verify the round trip with an independent decoder",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVar(&verifyDictFile, "dict", "", "zlib preset dictionary file")
}

func runVerify(cmd *cobra.Command, args []string) error {
	inPath := args[0]

	framing, err := parseFraming(FramingName)
	if err != nil {
		return err
	}

	opts := zultra.Options{Framing: framing}
	if verifyDictFile != "" {
		dict, err := os.ReadFile(verifyDictFile)
		if err != nil {
			return fmt.Errorf("%w: reading dictionary %s: %v", zultra.ErrDictionary, verifyDictFile, err)
		}
		opts.Dictionary = dict
	}

	in, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", zultra.ErrSource, inPath, err)
	}

	compressed, err := zultra.CompressBlock(nil, in, opts)
	if err != nil {
		return err
	}

	decoded, err := decodeWithKlauspost(compressed, framing, opts.Dictionary)
	if err != nil {
		return fmt.Errorf("%w: independent decoder rejected output: %v", zultra.ErrCompression, err)
	}

	if !bytes.Equal(decoded, in) {
		return fmt.Errorf("%w: round trip mismatch: %d bytes in, %d bytes decoded", zultra.ErrCompression, len(in), len(decoded))
	}

	if Verbose {
		log.Printf("%s: %d bytes in, %d bytes compressed, round trip verified", inPath, len(in), len(compressed))
	}
	fmt.Printf("OK: %s (%d -> %d bytes)\n", inPath, len(in), len(compressed))
	return nil
}

// decodeWithKlauspost decodes compressed using klauspost/compress, an
// independent implementation of RFC 1951/1950/1952 from the zultra
// encoder itself, exactly the "verify-after-compress" CLI mode spec.md
// §6 describes.
func decodeWithKlauspost(compressed []byte, framing zultra.Framing, dict []byte) ([]byte, error) {
	switch framing {
	case zultra.DeflateFraming:
		r := kflate.NewReader(bytes.NewReader(compressed))
		defer r.Close()
		return io.ReadAll(r)

	case zultra.ZlibFraming:
		var r io.ReadCloser
		var err error
		if len(dict) > 0 {
			r, err = kzlib.NewReaderDict(bytes.NewReader(compressed), dict)
		} else {
			r, err = kzlib.NewReader(bytes.NewReader(compressed))
		}
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)

	case zultra.GzipFraming:
		r, err := kgzip.NewReader(bytes.NewReader(compressed))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)

	default:
		return nil, fmt.Errorf("unsupported framing %v", framing)
	}
}
