package main

import "github.com/copperotter/copperotter/cmd"

func main() {
	cmd.Execute()
}
