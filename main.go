package main

import "github.com/fakeyudi/cco/cmd"

func main() {
	cmd.Execute()
}
