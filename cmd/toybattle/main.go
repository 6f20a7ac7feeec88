package main

import "github.com/nfrund/toybattle/cmd/toybattle/cmd"

func main() {
	cmd.Execute()
}
