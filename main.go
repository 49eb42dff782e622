package main

import "github.com/robalobadob/wordle-engine/cmd"

func main() {
	cmd.Execute()
}
