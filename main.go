package main

import "github.com/jmehdipour/superstore-dashboard/cmd"

func main() {
	cmd.Execute()
}
