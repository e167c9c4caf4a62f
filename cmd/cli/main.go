package main

import (
	"github.com/mchmarny/celltyper/pkg/cli"
)

func main() {
	cli.Execute()
}
