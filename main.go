package main

import "github.com/Rorical/RoriQuery/cmd"

func main() {
	cmd.Execute()
}
