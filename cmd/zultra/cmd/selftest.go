package cmd

import (
	"bytes"
	"fmt"
	"math/rand"

	"github.com/gozultra/zultra"
	"github.com/spf13/cobra"
)

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Run the full built-in scenario suite (spec.md §8)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScenarios(selfTestScenarios())
	},
}

var quickSelftestCmd = &cobra.Command{
	Use:   "quick-selftest",
	Short: "Run a fast subset of the built-in scenario suite",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScenarios(quickSelfTestScenarios())
	},
}

func init() {
	rootCmd.AddCommand(selftestCmd)
	rootCmd.AddCommand(quickSelftestCmd)
}

type scenario struct {
	name    string
	framing zultra.Framing
	dict    []byte
	input   []byte
}

func selfTestScenarios() []scenario {
	rng := rand.New(rand.NewSource(1))

	random65537 := make([]byte, 65537)
	rng.Read(random65537)

	enwikish := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 200000)

	dict := []byte("abcdefgh")

	return []scenario{
		{name: "empty input, zlib", framing: zultra.ZlibFraming, input: nil},
		{name: "262144 bytes of 'A', gzip", framing: zultra.GzipFraming, input: bytes.Repeat([]byte{'A'}, 262144)},
		{name: "english-text-like corpus, gzip", framing: zultra.GzipFraming, input: enwikish},
		{name: "65537 random bytes, gzip", framing: zultra.GzipFraming, input: random65537},
		{name: "dictionary-seeded repeats, zlib", framing: zultra.ZlibFraming, dict: dict, input: bytes.Repeat(dict, 1000)},
		{name: "single byte input, deflate", framing: zultra.DeflateFraming, input: []byte("x")},
	}
}

// quickSelfTestScenarios returns a fast subset of the full suite: cheap
// inputs that still exercise every framing and the dictionary path,
// skipping the larger corpora that make the full suite slow.
func quickSelfTestScenarios() []scenario {
	full := selfTestScenarios()
	quick := make([]scenario, 0, len(full))
	for _, s := range full {
		if len(s.input) <= 300000 {
			quick = append(quick, s)
		}
	}
	return quick
}

func runScenarios(scenarios []scenario) error {
	failures := 0
	for _, s := range scenarios {
		opts := zultra.Options{Framing: s.framing, Dictionary: s.dict}

		compressed, err := zultra.CompressBlock(nil, s.input, opts)
		if err != nil {
			fmt.Printf("FAIL: %s: compress error: %v\n", s.name, err)
			failures++
			continue
		}

		decoded, err := decodeWithKlauspost(compressed, s.framing, s.dict)
		if err != nil {
			fmt.Printf("FAIL: %s: decode error: %v\n", s.name, err)
			failures++
			continue
		}

		if !bytes.Equal(decoded, s.input) {
			fmt.Printf("FAIL: %s: round trip mismatch (%d bytes in, %d bytes out)\n", s.name, len(s.input), len(decoded))
			failures++
			continue
		}

		fmt.Printf("PASS: %s (%d -> %d bytes)\n", s.name, len(s.input), len(compressed))
	}

	if failures > 0 {
		return fmt.Errorf("%w: %d/%d scenarios failed", zultra.ErrCompression, failures, len(scenarios))
	}
	return nil
}
