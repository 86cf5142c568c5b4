package main

import (
	"log"
	"os"

	"StockLens/internal/cli"
)

var version = "dev"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := cli.NewRootCmd(version).Execute(); err != nil {
		os.Exit(1)
	}
}
