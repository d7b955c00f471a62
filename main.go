package main

import "github.com/theirongolddev/habitual/cmd"

func main() {
	cmd.Execute()
}
