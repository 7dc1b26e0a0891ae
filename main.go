package main

import "github.com/panelyze/panelyze/cmd"

func main() {
	cmd.Execute()
}
