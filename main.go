package main

import "github.com/KaramelBytes/amrtables-cli/cmd"

func main() {
	cmd.Execute()
}
