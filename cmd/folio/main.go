// Command folio is a terminal viewer for PDF documents.
package main

import (
	"log/slog"
	"os"

	"github.com/birchlabs/folio/internal/cli"
)

func main() {
	err := cli.NewRootCmd().Execute()
	if err != nil {
		slog.Error("command failed", slog.Any("err", err))
		os.Exit(1)
	}
}
