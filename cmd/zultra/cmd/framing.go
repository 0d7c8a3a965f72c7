package cmd

import (
	"fmt"

	"github.com/gozultra/zultra"
)

// parseFraming maps the --framing flag's string value onto a
// zultra.Framing, the way detectGameName in other example CLIs maps a
// string flag onto a typed enum before handing it to the library layer.
func parseFraming(name string) (zultra.Framing, error) {
	switch name {
	case "deflate":
		return zultra.DeflateFraming, nil
	case "zlib":
		return zultra.ZlibFraming, nil
	case "gzip", "":
		return zultra.GzipFraming, nil
	default:
		return 0, fmt.Errorf("unknown framing %q: want deflate, zlib, or gzip", name)
	}
}
