package main

import "borg-link/cmd"

func main() {
	cmd.Execute()
}
