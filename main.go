package main

import (
	"github.com/snova-jorgep/sambaparse/cmd"
)

func main() {
	cmd.Execute()
}
