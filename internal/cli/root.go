// Package cli is the command tree of the showcase operator tool.
package cli

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Showcase/internal/catalog"
	"Showcase/internal/chat"
)

// Deps are the collaborators the commands run against.
type Deps struct {
	Log    *zap.Logger
	Loader *catalog.Loader
	Chat   *chat.Service
	Out    io.Writer
}

func NewRootCommand(d Deps) *cobra.Command {
	root := &cobra.Command{
		Use:           "showcase",
		Short:         "Browse the product catalog and drive the chat API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(d.Out)

	root.AddCommand(newProductsCommand(d))
	if d.Chat != nil {
		root.AddCommand(newChatCommand(d))
	}
	return root
}
