package main

import "katgen/cmd"

func main() {
	cmd.Execute()
}
