package main

import "studyplanner/cmd"

func main() {
	cmd.Execute()
}
