package main

import "easy-request/internal/cli"

func main() {
	cli.Execute()
}
