package main

import (
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/greggh/lust-next-sub011/cmd"
)

func main() {
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	cmd.Execute()
}
