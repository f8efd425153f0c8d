package main

import "github.com/udfnd/zoomclass/cmd"

func main() {
	cmd.Execute()
}
