// This command line tool tags wav files with sound library metadata. The
// bext, ID3, LIST/INFO, iXML and XMP chunks of every file are replaced, all
// other chunks are kept as they are.
package main

import (
	"log/slog"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("wavtagger failed", "error", err)
		os.Exit(1)
	}
}
