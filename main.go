package main

import "github.com/minhvt/corporate-portal/cmd"

func main() {
	cmd.Execute()
}
