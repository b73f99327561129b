package main

import "github.com/takaryo1010/OneTimeChat/cli/cmd"

func main() {
	cmd.Execute()
}
