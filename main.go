package main

import "github.com/theirongolddev/brewburn/cmd"

func main() {
	cmd.Execute()
}
