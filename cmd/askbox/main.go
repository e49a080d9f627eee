package main

import "github.com/example/askbox/cmd"

func main() {
	cmd.Execute()
}
