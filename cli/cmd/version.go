package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/nengo/pkg"
)

// Version prints the version of nengo.
type Version struct{}

// Run executes the version command.
func (Version) Run(ctx context.Context) error {
	_, err := fmt.Fprintln(outputFrom(ctx), pkg.Name, pkg.Version)

	return err
}
