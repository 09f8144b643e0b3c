package main

import "github.com/helpmatch/helpmatch/cmd/helpmatch/commands"

func main() {
	commands.Execute()
}
