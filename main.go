package main

import "github.com/notargets/gocoax/cmd"

func main() {
	cmd.Execute()
}
