package main

import "github.com/OpenDotLab/dottune/cmd/dottune/cmd"

func main() {
	cmd.Execute()
}
