package main

import "meshbridge/cmd/meshbridge-cli/cmd"

func main() {
	cmd.Execute()
}
