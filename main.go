package main

import "github.com/mj1618/producer/cmd"

func main() {
	cmd.Execute()
}
