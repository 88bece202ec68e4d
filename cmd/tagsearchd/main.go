package main

import "github.com/materials-commons/tagsearch/cmd/tagsearchd/cmd"

func main() {
	cmd.Execute()
}
