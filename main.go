package main

import "github.com/naka-gawa/jobapp-metrics/cmd"

func main() {
	cmd.Execute()
}
