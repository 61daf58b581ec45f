package main

import "github.com/nextlevelbuilder/coderlink/cmd"

func main() {
	cmd.Execute()
}
