package main

import "github.com/drausin/recapture/recapture/cmd"

func main() {
	cmd.Execute()
}
