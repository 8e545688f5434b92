package main

import (
	"log"
	"os"

	"github.com/zeu5/tmr-voting/commands"
)

// main entry point: compares the two voters, see commands.GetRootCommand for the arguments
func main() {
	log.SetPrefix("[tmr] ")
	rootCommand := commands.GetRootCommand()
	if err := commands.ExecuteArgs(rootCommand, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
