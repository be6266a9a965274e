package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "docparse",
	Short: "Docparse - PDF text and table extraction",
	Long: `Docparse extracts text, tables, and image metadata from PDF documents.

It reconstructs reading order from positioned text fragments, detects
column layouts and tables, and flags scanned pages that need OCR.

Run it as an HTTP service with "docparse serve", or extract a single
document with "docparse extract".`,
	Version: version,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(extractCmd)
}
