// Serves the current directory with the headers needed for cross-origin isolation

package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/maxhully/isoserve"
)

func run(addr string, stdout io.Writer, stderr io.Writer) error {
	root, err := os.Getwd()
	if err != nil {
		return err
	}
	ln, err := isoserve.Listen(addr)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Serving on %s\n", isoserve.URL)

	server := isoserve.Server{Root: root, AccessLog: stderr}
	return server.Serve(ln)
}

func main() {
	log.Fatal(run(isoserve.Addr, os.Stdout, os.Stderr))
}
