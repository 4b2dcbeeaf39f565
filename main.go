package main

import "video-thumbnail/cmd"

func main() {
	cmd.Execute()
}
