package main

import "github.com/openlvs/lvscore/cmd/lvscmp/cmd"

func main() {
	cmd.Execute()
}
