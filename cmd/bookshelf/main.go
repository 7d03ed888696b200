package main

import "github.com/graph-gophers/bookshelf/internal/cli"

func main() {
	cli.Execute()
}
