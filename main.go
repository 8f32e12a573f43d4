package main

import "github.com/notargets/gotdem/cmd"

func main() {
	cmd.Execute()
}
