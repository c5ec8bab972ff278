package main

import "github.com/Seann-Moser/joyarm/cmd"

func main() {
	cmd.Execute()
}
