package main

import "crisp/cmd"

func main() {
	cmd.Execute()
}
