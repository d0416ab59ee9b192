// Command edumetrics serves exam score forecasts over HTTP and builds single
// reports from the command line.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
