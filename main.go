package main

import (
	"github.com/sultanavtajev/simpleperf/cmd"
)

func main() {
	cmd.Execute()
}
