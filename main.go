package main

import "github.com/quillhq/gitquill/cmd"

func main() {
	cmd.Execute()
}
