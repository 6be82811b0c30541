package main

import (
	"github.com/luma/vlcrc/cmd"
)

func main() {
	cmd.Execute()
}
