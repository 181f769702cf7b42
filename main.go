package main

import "github.com/princespaghetti/cadist/internal/cli"

func main() {
	cli.Execute()
}
