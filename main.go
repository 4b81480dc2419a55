package main

import "shortly/cmd"

func main() {
	cmd.Execute()
}
