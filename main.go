package main

import (
	"github.com/meysamhadeli/resman/cmd"
	_ "github.com/tliron/commonlog/simple"
)

func main() {
	cmd.Execute()
}
