// Command cartctl inspects and repairs persisted shopper carts.
package main

import (
	"fmt"
	"os"

	"github.com/dwikikusuma/videoshop-cart/pkg/config"
)

func main() {
	if err := rootCmd(config.Load()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
