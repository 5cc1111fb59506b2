package main

import (
	"github.com/frahmantamala/course-platform/cmd"
)

func main() {
	cmd.Execute()
}
