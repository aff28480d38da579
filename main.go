package main

import "recruit-sync/cmd"

func main() {
	cmd.Execute()
}
