package main

import "creator-dashboard/cmd"

func main() {
	cmd.Execute()
}
