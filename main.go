package main

import "meet-transcript/cmd"

func main() {
	cmd.Execute()
}
