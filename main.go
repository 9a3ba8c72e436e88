package main

import (
	"bfscan/internal/cli"
)

func main() {
	cli.Execute()
}
