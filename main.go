package main

import "github.com/YangQing-Lin/cc-devbox/cmd"

func main() {
	cmd.Execute()
}
