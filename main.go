package main

import (
	"github.com/sw33tLie/formgap/cmd"
)

func main() {
	cmd.Execute()
}
