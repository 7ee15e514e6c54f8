package main

import "github.com/Debesyla/dago-domenai/cmd"

var execCmd = cmd.Execute

func main() {
	execCmd()
}
