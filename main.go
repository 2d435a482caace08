package main

import "github.com/frankywashere/boomtrade/cmd"

func main() {
	cmd.Execute()
}
