package main

import (
	"github.com/flowsplit/flowsplit/cmd/flowsplit/cmd"
)

func main() {
	cmd.Execute()
}
