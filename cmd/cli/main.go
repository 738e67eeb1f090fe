package main

import (
	"fmt"
	"os"

	"github.com/crucial707/asset-audit/cmd/cli/assets"
	"github.com/crucial707/asset-audit/cmd/cli/audits"
	"github.com/crucial707/asset-audit/cmd/cli/root"
)

func main() {
	audits.InitAudits(root.GetRoot())
	assets.InitAssets(root.GetRoot())

	if err := root.GetRoot().Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
