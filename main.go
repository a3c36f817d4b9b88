package main

import "github.com/jake-scott/switchbot-cli/cmd"

func main() {
	cmd.Execute()
}
