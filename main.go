package main

import "github.com/jouaraujo/curry-company/cmd"

func main() {
	cmd.Execute()
}
