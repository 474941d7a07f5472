// Package main is the scanalign command itself.
package main

import (
	"log"
	"os"

	"github.com/probemap/scanalign/cli"
)

func main() {
	if err := cli.NewApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
