package main

import "github.com/sCOSTAkg/krauzzzz/cmd/client/cmd"

func main() {
	cmd.Execute()
}
