// Command fixtures downloads reference packet captures. Bit-level layout
// cannot be derived from schemas alone, so codec changes are validated
// against real client captures checked into a fixtures repository.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	get "github.com/hashicorp/go-getter"
)

func main() {
	var (
		base  = flag.String("base", "https://github.com/arkfall/protocol-captures.git", "captures repository url")
		build = flag.String("build", "16042", "client build the captures were taken against")
		out   = flag.String("o", "./testdata/captures", "output dir path")
	)
	flag.Parse()

	if *out == "" {
		panic("output dir path required")
	}
	if *build == "" {
		panic("client build required")
	}

	path := fmt.Sprintf("%s/%s", *out, *build)

	if err := os.RemoveAll(path); err != nil {
		panic(err)
	}

	log.Default().Printf("start downloading captures %s", path)

	url := fmt.Sprintf("git::%s//captures/%s", *base, *build)

	if err := get.Get(path, url); err != nil {
		panic(err)
	}

	log.Default().Printf("done downloading captures %s", path)
}
