package main

import "github.com/voxnote/ideas-api/cmd"

func main() {
	cmd.Execute()
}
