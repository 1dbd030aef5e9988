package main

import "github.com/naka-gawa/github-xp/cmd"

func main() {
	cmd.Execute()
}
