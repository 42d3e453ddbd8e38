package main

import (
	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/client"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/do"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func NewProvidersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "providers",
		Aliases: []string{"ls"},
		Short:   "List image providers and whether they are configured",
		Args:    cobra.NoArgs,
		RunE:    a.providersHandler,
	}

	return cmd
}

func (a *app) providersHandler(cmd *cobra.Command, _ []string) error {
	c := do.MustInvoke[*client.Client](a.injector)

	data := lo.Map(ai.Providers(), func(p ai.Provider, _ int) []string {
		env := lo.Ternary(p.RequiresCredential(), p.EnvKey(), "-")
		return []string{string(p), p.DisplayName(), env, lo.Ternary(c.HasCredential(p), "yes", "no")}
	})

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"ID", "NAME", "CREDENTIAL", "CONFIGURED"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	return nil
}
