package main

import "github.com/catalogkit/catalog/cmd"

func main() {
	cmd.Execute()
}
